//fluxcore:reducer Counter state=State
package counter

type State struct {
	N int
}

//fluxcore:on INC
func inc(s State) State {
	return State{N: s.N + 1}
}

//fluxcore:on ADD
func add(s State, n int) State {
	return State{N: s.N + n}
}
