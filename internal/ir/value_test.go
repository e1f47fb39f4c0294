package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{
		"a":  IRInt(1),
		"A":  IRInt(2),
		"aa": IRInt(3),
		"Aa": IRInt(5),
		"AA": IRInt(6),
	}

	// 'A' = 65 sorts before 'a' = 97
	assert.Equal(t, []string{"A", "AA", "Aa", "a", "aa"}, obj.SortedKeys())
}

func TestIRObjectSortedKeysSurrogates(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FFFD
	// in UTF-16 but after it in UTF-8.
	obj := IRObject{"\U0001F600": IRInt(1), "\uFFFD": IRInt(2)}
	assert.Equal(t, []string{"\U0001F600", "\uFFFD"}, obj.SortedKeys())
}

func TestFromPayload(t *testing.T) {
	type item struct {
		ID      int    `json:"id"`
		Text    string `json:"text"`
		Checked bool   `json:"checked"`
	}

	tests := []struct {
		name    string
		payload any
		want    IRValue
	}{
		{name: "nil", payload: nil, want: IRNull{}},
		{name: "string", payload: "a", want: IRString("a")},
		{name: "int", payload: 7, want: IRInt(7)},
		{name: "bool", payload: true, want: IRBool(true)},
		{name: "tuple", payload: Tuple{1, true}, want: IRArray{IRInt(1), IRBool(true)}},
		{
			name:    "struct via json",
			payload: item{ID: 1, Text: "a"},
			want:    IRObject{"id": IRInt(1), "text": IRString("a"), "checked": IRBool(false)},
		},
		{
			name:    "slice of structs via json",
			payload: []item{{ID: 2, Checked: true}},
			want:    IRArray{IRObject{"id": IRInt(2), "text": IRString(""), "checked": IRBool(true)}},
		},
		{
			name:    "decoded json",
			payload: map[string]any{"tags": []any{"x"}, "note": nil, "n": json.Number("7")},
			want:    IRObject{"tags": IRArray{IRString("x")}, "note": IRNull{}, "n": IRInt(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromPayload(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromPayloadRejectsFloat(t *testing.T) {
	_, err := FromPayload(Tuple{1, 2.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tuple[1]")
}

func TestFromPayloadRejectsJSONFloat(t *testing.T) {
	type priced struct {
		Price float64 `json:"price"`
	}
	_, err := FromPayload(priced{Price: 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}
