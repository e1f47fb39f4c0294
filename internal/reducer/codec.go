package reducer

import (
	"fmt"
	"reflect"

	"github.com/roach88/fluxcore/internal/ir"
)

// MaxParams is the largest handler arity the codec (and the generator)
// supports. Handlers needing more should take a struct.
const MaxParams = 4

// Encode0 builds the payload of a handler without arguments.
func Encode0() any {
	return nil
}

// Encode1 builds the payload of a single-argument handler: the value itself.
func Encode1[A any](a A) any {
	return a
}

// Encode2 builds the positional payload of a two-argument handler.
func Encode2[A, B any](a A, b B) ir.Tuple {
	return ir.Tuple{a, b}
}

// Encode3 builds the positional payload of a three-argument handler.
func Encode3[A, B, C any](a A, b B, c C) ir.Tuple {
	return ir.Tuple{a, b, c}
}

// Encode4 builds the positional payload of a four-argument handler.
func Encode4[A, B, C, D any](a A, b B, c C, d D) ir.Tuple {
	return ir.Tuple{a, b, c, d}
}

// Decode0 checks that an action carries no arguments.
// A nil payload and an empty Tuple are both accepted.
func Decode0(a ir.Action) error {
	switch p := a.Payload.(type) {
	case nil:
		return nil
	case ir.Tuple:
		if len(p) == 0 {
			return nil
		}
	}
	return &PayloadDecodeError{Action: a.Type, Index: -1, Want: "no payload", Got: describe(a.Payload)}
}

// Decode1 unpacks the payload of a single-argument handler.
func Decode1[A any](a ir.Action) (A, error) {
	return decodeValue[A](a.Type, -1, a.Payload)
}

// Decode2 unpacks the positional payload of a two-argument handler.
func Decode2[A, B any](a ir.Action) (A, B, error) {
	var (
		va A
		vb B
	)
	t, err := tuple(a, 2)
	if err != nil {
		return va, vb, err
	}
	if va, err = decodeValue[A](a.Type, 0, t[0]); err != nil {
		return va, vb, err
	}
	if vb, err = decodeValue[B](a.Type, 1, t[1]); err != nil {
		return va, vb, err
	}
	return va, vb, nil
}

// Decode3 unpacks the positional payload of a three-argument handler.
func Decode3[A, B, C any](a ir.Action) (A, B, C, error) {
	var (
		va A
		vb B
		vc C
	)
	t, err := tuple(a, 3)
	if err != nil {
		return va, vb, vc, err
	}
	if va, err = decodeValue[A](a.Type, 0, t[0]); err != nil {
		return va, vb, vc, err
	}
	if vb, err = decodeValue[B](a.Type, 1, t[1]); err != nil {
		return va, vb, vc, err
	}
	if vc, err = decodeValue[C](a.Type, 2, t[2]); err != nil {
		return va, vb, vc, err
	}
	return va, vb, vc, nil
}

// Decode4 unpacks the positional payload of a four-argument handler.
func Decode4[A, B, C, D any](a ir.Action) (A, B, C, D, error) {
	var (
		va A
		vb B
		vc C
		vd D
	)
	t, err := tuple(a, 4)
	if err != nil {
		return va, vb, vc, vd, err
	}
	if va, err = decodeValue[A](a.Type, 0, t[0]); err != nil {
		return va, vb, vc, vd, err
	}
	if vb, err = decodeValue[B](a.Type, 1, t[1]); err != nil {
		return va, vb, vc, vd, err
	}
	if vc, err = decodeValue[C](a.Type, 2, t[2]); err != nil {
		return va, vb, vc, vd, err
	}
	if vd, err = decodeValue[D](a.Type, 3, t[3]); err != nil {
		return va, vb, vc, vd, err
	}
	return va, vb, vc, vd, nil
}

// tuple extracts a positional payload of exactly n elements.
func tuple(a ir.Action, n int) (ir.Tuple, error) {
	t, ok := a.Payload.(ir.Tuple)
	if !ok || len(t) != n {
		return nil, &PayloadDecodeError{
			Action: a.Type,
			Index:  -1,
			Want:   fmt.Sprintf("tuple of %d", n),
			Got:    describe(a.Payload),
		}
	}
	return t, nil
}

// decodeValue asserts v to T. A nil v decodes to the zero T only when T is
// itself nilable as an interface (Encode1 of a nil interface value).
func decodeValue[T any](action string, index int, v any) (T, error) {
	if out, ok := v.(T); ok {
		return out, nil
	}
	var zero T
	if v == nil && any(zero) == nil {
		return zero, nil
	}
	return zero, &PayloadDecodeError{
		Action: action,
		Index:  index,
		Want:   reflect.TypeFor[T]().String(),
		Got:    describe(v),
	}
}

func describe(v any) string {
	switch p := v.(type) {
	case nil:
		return "nil"
	case ir.Tuple:
		return fmt.Sprintf("tuple of %d", len(p))
	default:
		return fmt.Sprintf("%T", v)
	}
}
