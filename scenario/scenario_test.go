package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/dragbind"
)

const cardStage = `
boxes:
  - name: panel
    position: relative
    flowX: 100
    flowY: 50
    width: 400
    height: 300
    children:
      - name: card
        position: absolute
        left: 20
        top: 30
        width: 40
        height: 40
        children:
          - name: handle
            position: absolute
            left: 0
            top: 0
            width: 40
            height: 10
`

func mustRun(t *testing.T, doc string) (*Scenario, *Runner, error) {
	t.Helper()
	f, err := Load([]byte(doc))
	require.NoError(t, err)
	sc, err := Build(f, Options{})
	require.NoError(t, err)
	r := NewRunner(sc, nil)
	_, err = r.RunHeadless(1000)
	return sc, r, err
}

func TestLoadFileAndRun(t *testing.T) {
	f, err := LoadFile("testdata/manual.yaml")
	require.NoError(t, err)
	assert.Equal(t, "manual-bounds", f.Name)
	require.Len(t, f.Bindings, 1)
	assert.Equal(t, dragbind.BoundsManual, f.Bindings[0].Bounds.Mode)
	assert.Equal(t, dragbind.Range{Min: 0, Max: 300}, f.Bindings[0].Bounds.X)

	sc, err := Build(f, Options{})
	require.NoError(t, err)
	r := NewRunner(sc, nil)
	frames, err := r.RunHeadless(100)
	require.NoError(t, err)
	assert.True(t, r.Done())
	assert.Greater(t, frames, 4)
	assert.Equal(t, []Position{{Name: "card", Left: 260, Top: 130}}, sc.Positions())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"empty", ``, true},
		{"unknown field", "bogus: 1\n", false},
		{"unnamed box", "boxes:\n  - width: 1\n", true},
		{"reserved name", "boxes:\n  - name: document\n", true},
		{"duplicate box", "boxes:\n  - name: a\n  - name: a\n", true},
		{"bad position", "boxes:\n  - name: a\n    position: sticky\n", true},
		{"negative size", "boxes:\n  - name: a\n    width: -1\n", true},
		{"bad color", "boxes:\n  - name: a\n    color: red\n", true},
		{"unknown element", "bindings:\n  - element: ghost\n", true},
		{"unknown anchor", "boxes:\n  - name: a\nbindings:\n  - element: a\n    anchor: ghost\n", true},
		{"unknown release", "boxes:\n  - name: a\nbindings:\n  - element: a\n    release: [ghost]\n", true},
		{"bad bounds", "boxes:\n  - name: a\nbindings:\n  - element: a\n    bounds: inside\n", true},
		{"bounds list", "boxes:\n  - name: a\nbindings:\n  - element: a\n    bounds: [1, 2]\n", true},
		{"unknown action", "steps:\n  - action: jump\n", true},
		{"bad button", "steps:\n  - action: press\n    button: fourth\n", true},
		{"zero wait", "steps:\n  - action: wait\n", true},
		{"unbind unknown", "steps:\n  - action: unbind\n    box: ghost\n", true},
		{"empty expect", "boxes:\n  - name: a\nsteps:\n  - action: expect\n    box: a\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid), "err = %v", err)
		})
	}
}

func TestBoundsSpecYAML(t *testing.T) {
	tests := []struct {
		in   string
		want dragbind.Bounds
	}{
		{`none`, dragbind.Bounds{}},
		{`""`, dragbind.Bounds{}},
		{`offsetParent`, dragbind.OffsetParentBounds()},
		{`windowSize`, dragbind.WindowBounds()},
		{`{x: {min: 1, max: 2}, y: {min: -3, max: 4}}`,
			dragbind.ManualBounds(dragbind.Range{Min: 1, Max: 2}, dragbind.Range{Min: -3, Max: 4})},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b BoundsSpec
			require.NoError(t, yaml.Unmarshal([]byte(tt.in), &b))
			assert.Equal(t, tt.want, b.Bounds)
		})
	}

	out, err := yaml.Marshal(BoundsSpec{dragbind.WindowBounds()})
	require.NoError(t, err)
	assert.Equal(t, "windowSize\n", string(out))
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), c.R)
	assert.Equal(t, uint8(0xff), c.A)

	c, err = parseColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, [4]uint8{0x10, 0x20, 0x30, 0x40}, [4]uint8{c.R, c.G, c.B, c.A})

	_, err = parseColor("#12345")
	assert.Error(t, err)
	_, err = parseColor("#gggggg")
	assert.Error(t, err)
}

func TestExpectFailureIsReported(t *testing.T) {
	_, r, err := mustRun(t, cardStage+`
bindings:
  - element: card
steps:
  - action: drag
    fromX: 130
    fromY: 90
    toX: 140
    toY: 100
    frames: 3
  - action: expect
    box: card
    left: 999
`)
	require.Error(t, err)
	require.Len(t, r.Failures(), 1)
	assert.Equal(t, 1, r.Failures()[0].Step)
	assert.Contains(t, r.Failures()[0].Message, "card left = 30, want 999")
}

func TestDeferredUnbindScript(t *testing.T) {
	sc, _, err := mustRun(t, cardStage+`
bindings:
  - element: card
steps:
  - action: press
    x: 130
    y: 90
  - action: move
    x: 140
    y: 95
  - action: expect
    box: card
    left: 30
    top: 35
    dragging: true
  - action: unbind
    box: card
  - action: expect
    box: card
    dragging: true
  - action: move
    x: 150
    y: 95
  - action: release
    x: 150
    y: 95
  - action: expect
    box: card
    left: 40
    dragging: false
  - action: drag
    fromX: 145
    fromY: 90
    toX: 300
    toY: 300
    frames: 3
  - action: expect
    box: card
    left: 40
    top: 35
`)
	require.NoError(t, err)
	assert.Empty(t, sc.Refs("card"))
	assert.Zero(t, sc.Registry.Len())
	assert.Zero(t, sc.Stage.ListenerCount())
}

func TestAnchorAndReleaseSurfaces(t *testing.T) {
	sc, _, err := mustRun(t, cardStage+`
bindings:
  - element: card
    anchor: handle
    release: [panel, document]
steps:
  - action: drag
    fromX: 130
    fromY: 110
    toX: 200
    toY: 200
    frames: 3
  - action: expect
    box: card
    left: 20
    top: 30
  - action: drag
    fromX: 130
    fromY: 85
    toX: 140
    toY: 95
    frames: 3
  - action: expect
    box: card
    left: 30
    top: 40
    dragging: false
`)
	require.NoError(t, err)
	require.Len(t, sc.Refs("card"), 1)
}

func TestWaitAndFrameLimit(t *testing.T) {
	f, err := Load([]byte("steps:\n  - action: wait\n    frames: 10\n"))
	require.NoError(t, err)
	sc, err := Build(f, Options{})
	require.NoError(t, err)

	_, err = NewRunner(sc, nil).RunHeadless(3)
	require.Error(t, err)

	frames, err := NewRunner(sc, nil).RunHeadless(0)
	require.NoError(t, err)
	assert.Equal(t, 10, frames)
}

func TestBuildRejectsStaticElement(t *testing.T) {
	f, err := Load([]byte("boxes:\n  - name: a\n    width: 10\n    height: 10\nbindings:\n  - element: a\n"))
	require.NoError(t, err)
	_, err = Build(f, Options{})
	assert.ErrorIs(t, err, dragbind.ErrUnsupportedPosition)
}

func TestEmptyScriptIsDone(t *testing.T) {
	f, err := Load([]byte("name: idle\n"))
	require.NoError(t, err)
	sc, err := Build(f, Options{})
	require.NoError(t, err)
	r := NewRunner(sc, nil)
	assert.True(t, r.Done())
	frames, err := r.RunHeadless(5)
	require.NoError(t, err)
	assert.Zero(t, frames)
}
