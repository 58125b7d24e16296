package dice

import "sync"

// Fixed is a Source that replays a scripted sequence of values, for tests.
// When the sequence is exhausted it repeats the final value; an empty
// sequence always yields 0.
//
// Invariant: every returned value is reduced modulo n, so Intn's contract holds
// regardless of the scripted values.
type Fixed struct {
	mu   sync.Mutex
	vals []int
	idx  int
}

// NewFixed creates a Fixed source replaying vals in order.
func NewFixed(vals ...int) *Fixed {
	return &Fixed{vals: vals}
}

// Intn returns the next scripted value modulo n.
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (f *Fixed) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.vals) == 0 {
		return 0
	}
	v := f.vals[f.idx]
	if f.idx < len(f.vals)-1 {
		f.idx++
	}
	if v < 0 {
		v = -v
	}
	return v % n
}
