package trace

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/dragbind"
	"github.com/phanxgames/dragbind/stage"
)

func boxNamer(target any) string {
	switch t := target.(type) {
	case *stage.Box:
		return t.Name
	case *stage.Stage:
		return "document"
	}
	return TypeNamer(target)
}

// recordDrag drags a card on a fresh stage with rec observing.
func recordDrag(t *testing.T, rec *Recorder) {
	t.Helper()
	s := stage.New(stage.Config{})
	card := stage.NewBox("card", dragbind.PositionAbsolute, 100, 50)
	card.SetPosition(20, 30)
	s.Box().AddChild(card)

	reg := dragbind.NewRegistry(dragbind.Config{
		Document:  s,
		Observers: []dragbind.Observer{rec},
	})
	_, err := reg.Bind(card, dragbind.Options{})
	require.NoError(t, err)

	s.InjectDrag(30, 40, 40, 50, 3)
	s.Drain()
}

func TestRecordAndRead(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf, WithNamer(boxNamer))
	recordDrag(t, rec)
	require.NoError(t, rec.Err())
	assert.Equal(t, uint64(4), rec.Count())

	records, err := NewReader(&buf, Filter{}).All()
	require.NoError(t, err)
	require.Len(t, records, 4)

	var names []string
	for i, r := range records {
		names = append(names, r.Event)
		assert.Equal(t, uint64(i+1), r.Seq)
		assert.NotZero(t, r.Binding)
		assert.False(t, r.Timestamp.IsZero())
	}
	assert.Equal(t, []string{"beforedrag", "dragstart", "drag", "dragend"}, names)

	start := records[1]
	assert.Equal(t, "card", start.Target)
	assert.Equal(t, "mousedown", start.Source)
	assert.Equal(t, 20.0, start.X)
	assert.Equal(t, 30.0, start.Y)

	end := records[3]
	assert.Equal(t, "mouseup", end.Source)
	assert.Equal(t, "document", end.Release)
	assert.Equal(t, 30.0, end.X)
	assert.Equal(t, 40.0, end.Y)
}

func TestReaderFilter(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	recordDrag(t, rec)

	r := NewReader(bytes.NewReader(buf.Bytes()), Filter{Event: "drag"})
	got, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "drag", got.Event)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)

	none, err := NewReader(bytes.NewReader(buf.Bytes()), Filter{Binding: 9999}).All()
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drag.cbor")
	rec, err := Create(path)
	require.NoError(t, err)
	recordDrag(t, rec)
	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close())

	// Closed recorders drop events.
	rec.Observe(&dragbind.Event{Type: dragbind.EventDrag})
	assert.Equal(t, uint64(4), rec.Count())

	r, err := Open(path, Filter{})
	require.NoError(t, err)
	defer r.Close()
	all, err := r.All()
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "*stage.Box", all[1].Target)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.cbor"), Filter{})
	assert.Error(t, err)
}

func TestCorruptJournal(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0xff, 0x00, 0x13}), Filter{}).Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestEncodeDecodeRecord(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	in := Record{Seq: 7, Timestamp: ts, Binding: 3, Event: "dragend", X: 1.5, Y: -2, Release: "panel"}
	data, err := EncodeRecord(in)
	require.NoError(t, err)
	out, err := DecodeRecord(data)
	require.NoError(t, err)
	assert.True(t, out.Timestamp.Equal(ts))
	out.Timestamp = ts
	assert.Equal(t, in, out)
	assert.Equal(t, "#7 dragend binding=3 pos=(1.5,-2) release=panel", out.String())
}
