// Package todo is a small to-do list reducer whose dispatch switch and
// action creators are generated by fluxgen from todo.cue.
package todo

//go:generate go run github.com/roach88/fluxcore/cmd/fluxgen generate todo.cue
