package ir

import (
	"strings"
	"unicode"
)

// ExportedName converts an action identifier to an exported Go name.
// Runs of letters and digits become words; everything else separates them.
//
//	ADD_ITEM     -> AddItem
//	change-state -> ChangeState
//	todo/v2.save -> TodoV2Save
//
// Returns "" when the identifier holds no letters or digits. A leading digit
// is kept, so callers must check the result with token.IsIdentifier.
func ExportedName(action string) string {
	words := strings.FieldsFunc(action, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for _, w := range words {
		if isUpperWord(w) {
			w = strings.ToLower(w)
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// isUpperWord reports whether w has no lowercase letters (SCREAMING case).
// Mixed-case words such as "addItem" keep their inner capitals.
func isUpperWord(w string) bool {
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}
