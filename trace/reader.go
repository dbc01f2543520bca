package trace

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects records. Zero fields match everything.
type Filter struct {
	Binding int
	Event   string
}

func (f Filter) matches(rec Record) bool {
	if f.Binding != 0 && rec.Binding != f.Binding {
		return false
	}
	if f.Event != "" && rec.Event != f.Event {
		return false
	}
	return true
}

// Reader streams records from a journal.
type Reader struct {
	decoder *cbor.Decoder
	closer  io.Closer
	filter  Filter
}

// NewReader reads records matching filter from r.
func NewReader(r io.Reader, filter Filter) *Reader {
	return &Reader{decoder: NewDecoder(r), filter: filter}
}

// Open reads records matching filter from the journal at path.
func Open(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(f, filter)
	r.closer = f
	return r, nil
}

// Next returns the next matching record, or io.EOF at the end.
func (r *Reader) Next() (Record, error) {
	for {
		var rec Record
		if err := r.decoder.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, err
		}
		if r.filter.matches(rec) {
			return rec, nil
		}
	}
}

// All reads the remaining matching records.
func (r *Reader) All() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Close closes the file opened by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
