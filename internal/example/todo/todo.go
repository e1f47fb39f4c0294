package todo

import (
	"github.com/roach88/fluxcore/internal/pseq"
)

// Item is one entry of the list.
type Item struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// List is the reducer state.
type List = pseq.Seq[Item]

func addItem(state pseq.Seq[Item], item Item) pseq.Seq[Item] {
	return state.Append(item)
}

// changeState sets Checked on the item with the given id. An unknown id
// leaves the list unchanged.
func changeState(state pseq.Seq[Item], id int, checked bool) pseq.Seq[Item] {
	i := state.IndexFunc(func(it Item) bool { return it.ID == id })
	if i < 0 {
		return state
	}
	item := state.At(i)
	if item.Checked == checked {
		return state
	}
	item.Checked = checked
	next, err := state.ReplaceAt(i, item)
	if err != nil {
		return state
	}
	return next
}

func clearChecked(state pseq.Seq[Item]) pseq.Seq[Item] {
	var kept []Item
	for _, it := range state.All() {
		if !it.Checked {
			kept = append(kept, it)
		}
	}
	if len(kept) == state.Len() {
		return state
	}
	return pseq.Of(kept...)
}
