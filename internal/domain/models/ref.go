// internal/domain/models/ref.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to another backend document. The backend returns
// references either as a bare id string or as a populated object that
// carries its own "_id". Both shapes decode into the same Ref, and ID()
// returns the same value for either one.
type Ref[T any] struct {
	id  string
	Doc *T // set only when the backend populated the reference
}

// NewRef builds an unpopulated reference from a bare id.
func NewRef[T any](id string) Ref[T] {
	return Ref[T]{id: id}
}

// PopulatedRef builds a populated reference.
func PopulatedRef[T any](id string, doc T) Ref[T] {
	return Ref[T]{id: id, Doc: &doc}
}

// ID returns the referenced document id, or "" for an empty reference.
func (r Ref[T]) ID() string { return r.id }

// IsZero reports whether the reference points at nothing.
func (r Ref[T]) IsZero() bool { return r.id == "" && r.Doc == nil }

// Populated reports whether the backend returned the full document.
func (r Ref[T]) Populated() bool { return r.Doc != nil }

// UnmarshalJSON accepts null, "id", or {"_id": "id", ...}.
func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = Ref[T]{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.id)
	case '{':
		var head struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(b, &head); err != nil {
			return err
		}
		var doc T
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		r.id = head.ID
		r.Doc = &doc
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %s", string(b[:1]))
	}
}

// MarshalJSON always writes the bare id; the backend expects ids on input.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
