package dragmetrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/dragbind"
	"github.com/phanxgames/dragbind/stage"
)

func TestCollectorFromStageDrag(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithNamespace("test"))

	s := stage.New(stage.Config{})
	card := stage.NewBox("card", dragbind.PositionAbsolute, 100, 50)
	card.SetPosition(20, 30)
	s.Box().AddChild(card)
	dr := dragbind.NewRegistry(dragbind.Config{Document: s, Observers: []dragbind.Observer{c}})
	_, err := dr.Bind(card, dragbind.Options{})
	require.NoError(t, err)

	s.InjectPress(30, 40)
	s.Step()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeDrags))

	s.InjectMove(60, 80)
	s.InjectRelease(60, 80)
	s.Drain()

	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeDrags))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("dragstart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("drag")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("dragend")))

	expected := `
# HELP test_drag_distance_pixels Distance between drag start and end positions in pixels
# TYPE test_drag_distance_pixels histogram
test_drag_distance_pixels_bucket{le="1"} 0
test_drag_distance_pixels_bucket{le="5"} 0
test_drag_distance_pixels_bucket{le="10"} 0
test_drag_distance_pixels_bucket{le="25"} 0
test_drag_distance_pixels_bucket{le="50"} 1
test_drag_distance_pixels_bucket{le="100"} 1
test_drag_distance_pixels_bucket{le="250"} 1
test_drag_distance_pixels_bucket{le="500"} 1
test_drag_distance_pixels_bucket{le="1000"} 1
test_drag_distance_pixels_bucket{le="+Inf"} 1
test_drag_distance_pixels_sum 50
test_drag_distance_pixels_count 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_drag_distance_pixels"))
	assert.Equal(t, 1, testutil.CollectAndCount(c.dragDuration))
}

func TestCollectorDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithDurationBuckets([]float64{0.5, 1, 2}))

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Observe(&dragbind.Event{Type: dragbind.EventDragStart, Timestamp: t0})
	c.Observe(&dragbind.Event{Type: dragbind.EventDragEnd, Timestamp: t0.Add(1500 * time.Millisecond)})

	expected := `
# HELP dragbind_drag_duration_seconds Drag duration from dragstart to dragend in seconds
# TYPE dragbind_drag_duration_seconds histogram
dragbind_drag_duration_seconds_bucket{le="0.5"} 0
dragbind_drag_duration_seconds_bucket{le="1"} 0
dragbind_drag_duration_seconds_bucket{le="2"} 1
dragbind_drag_duration_seconds_bucket{le="+Inf"} 1
dragbind_drag_duration_seconds_sum 1.5
dragbind_drag_duration_seconds_count 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dragbind_drag_duration_seconds"))
}

func TestUnmatchedDragEndIsCountedOnly(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithConstLabels(prometheus.Labels{"stage": "test"}))

	c.Observe(&dragbind.Event{Type: dragbind.EventDragEnd})
	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeDrags))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("dragend")))

	var m dto.Metric
	require.NoError(t, c.dragDistance.Write(&m))
	assert.Zero(t, m.GetHistogram().GetSampleCount())
}

func TestInvokedEventsDoNotOpenOrCloseDrags(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))

	s := stage.New(stage.Config{})
	card := stage.NewBox("card", dragbind.PositionAbsolute, 100, 50)
	card.SetPosition(20, 30)
	s.Box().AddChild(card)
	dr := dragbind.NewRegistry(dragbind.Config{Document: s, Observers: []dragbind.Observer{c}})
	ref, err := dr.Bind(card, dragbind.Options{})
	require.NoError(t, err)

	// Idle binding: nothing opens.
	ref.InvokeEvent(dragbind.EventDragStart, nil)
	ref.InvokeEvent(dragbind.EventDragStart, nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeDrags))

	s.InjectPress(30, 40)
	s.Step()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeDrags))

	// During a real drag, synthetic events neither stack nor end it.
	ref.InvokeEvent(dragbind.EventDragStart, nil)
	ref.InvokeEvent(dragbind.EventDragEnd, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeDrags))

	s.InjectMove(60, 80)
	s.InjectRelease(60, 80)
	s.Drain()

	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeDrags))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("dragstart")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.eventsTotal.WithLabelValues("dragend")))

	var m dto.Metric
	require.NoError(t, c.dragDistance.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Equal(t, 50.0, m.GetHistogram().GetSampleSum())
}

func TestRepeatedStartKeepsFirstBaseline(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg), WithDurationBuckets([]float64{1, 5}))

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Observe(&dragbind.Event{Type: dragbind.EventDragStart, Timestamp: t0})
	c.Observe(&dragbind.Event{Type: dragbind.EventDragStart, Timestamp: t0.Add(time.Second)})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeDrags))

	c.Observe(&dragbind.Event{Type: dragbind.EventDragEnd, Timestamp: t0.Add(3 * time.Second)})
	assert.Equal(t, 0.0, testutil.ToFloat64(c.activeDrags))

	var m dto.Metric
	require.NoError(t, c.dragDuration.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.Equal(t, 3.0, m.GetHistogram().GetSampleSum())
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))
	assert.Panics(t, func() { New(WithRegistry(reg)) })
	assert.NotPanics(t, func() { New(WithRegistry(reg), WithSubsystem("other")) })
}
