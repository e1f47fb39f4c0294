package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// IRValue is the sealed set of values a payload or state is recorded as
// in traces and scenario snapshots. There is no float variant: floats have
// no canonical text form, so recorded payloads use integers.
type IRValue interface {
	irValue()
}

// IRNull is JSON null.
type IRNull struct{}

// IRString is a string.
type IRString string

// IRInt is an integer, always int64.
type IRInt int64

// IRBool is a boolean.
type IRBool bool

// IRArray is an ordered list; Tuple payloads become one.
type IRArray []IRValue

// IRObject is a string-keyed map; structs with json tags become one.
type IRObject map[string]IRValue

func (IRNull) irValue()   {}
func (IRString) irValue() {}
func (IRInt) irValue()    {}
func (IRBool) irValue()   {}
func (IRArray) irValue()  {}
func (IRObject) irValue() {}

// SortedKeys returns the keys ordered by UTF-16 code units, the order
// canonical JSON uses. It differs from byte order for runes above U+FFFF.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}

// FromPayload converts an action payload or a state value to an IRValue.
//
// Scalars, Tuples and decoded JSON convert directly. Any other value goes
// through its JSON encoding, so application types with json tags are
// recorded field by field.
func FromPayload(p any) (IRValue, error) {
	switch val := p.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case string:
		return IRString(val), nil
	case bool:
		return IRBool(val), nil
	case int:
		return IRInt(val), nil
	case int32:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case json.Number:
		if strings.ContainsAny(string(val), ".eE") {
			return nil, fmt.Errorf("floats are forbidden in IR: %s", val)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("number out of int64 range: %s", val)
		}
		return IRInt(n), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in IR: %v", val)
	case Tuple:
		return arrayOf(val, "tuple")
	case []any:
		return arrayOf(val, "array")
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			v, err := FromPayload(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = v
		}
		return obj, nil
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("payload %T: %w", p, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("payload %T: %w", p, err)
		}
		return FromPayload(raw)
	}
}

func arrayOf(elems []any, what string) (IRArray, error) {
	arr := make(IRArray, len(elems))
	for i, elem := range elems {
		v, err := FromPayload(elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", what, i, err)
		}
		arr[i] = v
	}
	return arr, nil
}
