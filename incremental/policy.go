package incremental

import "fmt"

// ProbingPolicy selects how the next candidate slot is computed on a collision.
type ProbingPolicy int

const (
	Linear ProbingPolicy = iota
	Quadratic
	DoubleHashing
)

// doubleHashModulus is the fixed modulus of the secondary step in double hashing: step = 11 - hash%11.
const doubleHashModulus = 11

func (p ProbingPolicy) String() string {
	switch p {
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	case DoubleHashing:
		return "double-hashing"
	}
	return fmt.Sprintf("ProbingPolicy(%d)", int(p))
}

// Valid reports whether p is one of the known policies.
func (p ProbingPolicy) Valid() bool {
	return p == Linear || p == Quadratic || p == DoubleHashing
}
