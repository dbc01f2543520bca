// Package trace journals drag lifecycle events as a stream of CBOR records
// and reads them back.
package trace

import (
	"fmt"
	"time"

	"github.com/phanxgames/dragbind"
)

// Record is one lifecycle event. CBOR encoding uses integer keys for
// compactness.
type Record struct {
	// Seq numbers records from 1 in the order they were observed.
	Seq uint64 `cbor:"1,keyasint"`

	// Timestamp of the triggering platform event.
	Timestamp time.Time `cbor:"2,keyasint"`

	// Binding is the id of the binding that fired.
	Binding int `cbor:"3,keyasint"`

	// Event is the lifecycle event name ("dragstart", ...).
	Event string `cbor:"4,keyasint"`

	// X and Y are the event position (style left/top).
	X float64 `cbor:"5,keyasint"`
	Y float64 `cbor:"6,keyasint"`

	// Target names the event target, empty when the event had no source.
	Target string `cbor:"7,keyasint,omitempty"`

	// Source is the platform event type that triggered the lifecycle event.
	Source string `cbor:"8,keyasint,omitempty"`

	// Modifiers is the keyboard modifier bitmask at the time of the event.
	Modifiers uint8 `cbor:"9,keyasint,omitempty"`

	// Release names the surface that ended the drag (dragend only).
	Release string `cbor:"10,keyasint,omitempty"`
}

// String formats the record for dumps.
func (r Record) String() string {
	s := fmt.Sprintf("#%d %s binding=%d pos=(%g,%g)",
		r.Seq, r.Event, r.Binding, r.X, r.Y)
	if r.Target != "" {
		s += " target=" + r.Target
	}
	if r.Source != "" {
		s += " source=" + r.Source
	}
	if r.Release != "" {
		s += " release=" + r.Release
	}
	return s
}

// Namer maps an event target to a short name.
type Namer func(target any) string

// TypeNamer names targets by their dynamic type.
func TypeNamer(target any) string {
	if target == nil {
		return ""
	}
	return fmt.Sprintf("%T", target)
}

// recordOf converts a lifecycle event.
func recordOf(seq uint64, ev *dragbind.Event, name Namer) Record {
	rec := Record{
		Seq:       seq,
		Timestamp: ev.Timestamp,
		Binding:   ev.Binding.ID(),
		Event:     string(ev.Type),
		X:         ev.Pos.X,
		Y:         ev.Pos.Y,
		Target:    name(ev.Target),
	}
	if ev.OriginalEvent != nil {
		rec.Source = ev.OriginalEvent.Type
		rec.Modifiers = uint8(ev.OriginalEvent.Modifiers)
	}
	if ev.ReleaseAnchor != nil {
		rec.Release = name(ev.ReleaseAnchor)
	}
	return rec
}
