// Package stats implements small running statistics used by the analytics
// aggregators.
package stats

import "math"

const Epsilon = 1e-9

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running accumulates samples and reports their mean. The zero value is
// ready to use.
type Running struct {
	count int
	sum   float64
}

func (r *Running) Push(value float64) {
	r.count++
	r.sum += value
}

func (r *Running) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

func (r *Running) Count() int {
	return r.count
}
