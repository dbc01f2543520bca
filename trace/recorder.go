package trace

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/phanxgames/dragbind"
)

// Recorder is a dragbind.Observer that writes every lifecycle event as a
// CBOR record. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	encoder *cbor.Encoder
	closer  io.Closer
	name    Namer
	seq     uint64
	err     error
	closed  bool
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamer sets how event targets are named. Defaults to TypeNamer.
func WithNamer(n Namer) Option {
	return func(r *Recorder) {
		if n != nil {
			r.name = n
		}
	}
}

// NewRecorder writes records to w. Closing the recorder does not close w.
func NewRecorder(w io.Writer, opts ...Option) *Recorder {
	r := &Recorder{encoder: NewEncoder(w), name: TypeNamer}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create truncates or creates the file at path and records into it.
// The file is closed by Close.
func Create(path string, opts ...Option) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	r := NewRecorder(f, opts...)
	r.closer = f
	return r, nil
}

// Observe implements dragbind.Observer. The first encoding error is kept and
// later events are dropped; see Err.
func (r *Recorder) Observe(ev *dragbind.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.err != nil {
		return
	}
	r.seq++
	r.err = r.encoder.Encode(recordOf(r.seq, ev, r.name))
}

// Count returns the number of records written.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close stops recording and closes the file opened by Create.
// It is safe to call Close multiple times.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ dragbind.Observer = (*Recorder)(nil)
