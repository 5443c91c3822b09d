package model

import "fmt"

// Amount is a fixed-length vector of signed quantities (weight, volume,
// pallet count, ...). All jobs and vehicles within one Input share the
// same dimension.
type Amount []int64

// NewAmount returns a zero-valued Amount of the given dimension.
func NewAmount(dim int) Amount {
	return make(Amount, dim)
}

// Add returns the component-wise sum of a and b. Panics if dimensions
// differ: all amounts in one Input share a dimension.
func (a Amount) Add(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns the component-wise difference a - b.
func (a Amount) Sub(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// LessEqual reports whether every component of a is <= the
// corresponding component of b.
func (a Amount) LessEqual(b Amount) bool {
	a.mustMatch(b)
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Dominates is the strict partial order "≺": it holds iff every
// component of a is strictly less than the corresponding component of
// b. Deliberately not named Less/Compare so it is never confused with
// a total order.
func (a Amount) Dominates(b Amount) bool {
	a.mustMatch(b)
	for i := range a {
		if a[i] >= b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are component-wise equal.
func (a Amount) Equal(b Amount) bool {
	a.mustMatch(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a Amount) mustMatch(b Amount) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("model: amount dimension mismatch: %d vs %d", len(a), len(b)))
	}
}

// Clone returns an independent copy of a.
func (a Amount) Clone() Amount {
	out := make(Amount, len(a))
	copy(out, a)
	return out
}
