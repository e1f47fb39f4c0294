package pseq

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/benbjohnson/immutable"
)

// ErrIndexOutOfRange is matched by every IndexError via errors.Is.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports an access outside [0, Len).
// It is a programming error; the sequence itself is never modified.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("pseq: %s: index %d out of range [0:%d)", e.Op, e.Index, e.Len)
}

// Is makes errors.Is(err, ErrIndexOutOfRange) true for any IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Seq is an immutable ordered sequence of T.
//
// Seq is a small value (one pointer); copy it freely. The elements themselves
// are shared, so callers storing pointer or slice types must not mutate them
// after insertion.
type Seq[T any] struct {
	list *immutable.List[T]
}

// Empty returns a zero-length sequence.
func Empty[T any]() Seq[T] {
	return Seq[T]{}
}

// Of returns a sequence holding values in order.
func Of[T any](values ...T) Seq[T] {
	if len(values) == 0 {
		return Seq[T]{}
	}
	return Seq[T]{list: immutable.NewList(values...)}
}

// Len returns the number of elements.
func (s Seq[T]) Len() int {
	if s.list == nil {
		return 0
	}
	return s.list.Len()
}

// At returns the element at index i.
// It panics with an *IndexError if i is out of range, like slice indexing.
func (s Seq[T]) At(i int) T {
	if i < 0 || i >= s.Len() {
		panic(&IndexError{Op: "At", Index: i, Len: s.Len()})
	}
	return s.list.Get(i)
}

// Get returns the element at index i and whether i was in range.
func (s Seq[T]) Get(i int) (T, bool) {
	if i < 0 || i >= s.Len() {
		var zero T
		return zero, false
	}
	return s.list.Get(i), true
}

// Append returns a new sequence with v added at the end.
func (s Seq[T]) Append(v T) Seq[T] {
	if s.list == nil {
		return Seq[T]{list: immutable.NewList(v)}
	}
	return Seq[T]{list: s.list.Append(v)}
}

// ReplaceAt returns a new sequence with the element at index i replaced by v.
// It returns an *IndexError and the unchanged receiver if i is out of range.
func (s Seq[T]) ReplaceAt(i int, v T) (Seq[T], error) {
	if i < 0 || i >= s.Len() {
		return s, &IndexError{Op: "ReplaceAt", Index: i, Len: s.Len()}
	}
	return Seq[T]{list: s.list.Set(i, v)}, nil
}

// IndexFunc returns the index of the first element satisfying f, or -1.
func (s Seq[T]) IndexFunc(f func(T) bool) int {
	for i, v := range s.All() {
		if f(v) {
			return i
		}
	}
	return -1
}

// All iterates over index/element pairs in order.
func (s Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if s.list == nil {
			return
		}
		it := s.list.Iterator()
		for !it.Done() {
			i, v := it.Next()
			if !yield(i, v) {
				return
			}
		}
	}
}

// Slice copies the elements into a new slice the caller owns.
func (s Seq[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	for _, v := range s.All() {
		out = append(out, v)
	}
	return out
}

// MarshalJSON encodes the sequence as a JSON array.
func (s Seq[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON replaces s with the elements of a JSON array.
func (s *Seq[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = Of(values...)
	return nil
}

// String renders the sequence like a slice.
func (s Seq[T]) String() string {
	return fmt.Sprint(s.Slice())
}
