// Package analytics computes tournament-wide usage statistics from parsed
// team rosters: per-species usage breakdowns and co-occurrence "cores"
// across every subset of every team.
package analytics

// Usage is a value together with its share of some denominator.
type Usage[T comparable] struct {
	Value      T       `json:"value"`
	Percentage float64 `json:"percentage"`
}

// UsageAnalysis counts occurrences of values. Values are reported in
// first-seen order; there is no removal operation.
type UsageAnalysis[T comparable] struct {
	counts map[T]int
	order  []T
	total  int
}

func NewUsageAnalysis[T comparable]() *UsageAnalysis[T] {
	return &UsageAnalysis[T]{counts: map[T]int{}}
}

func (u *UsageAnalysis[T]) AddUsage(value T) {
	if _, ok := u.counts[value]; !ok {
		u.order = append(u.order, value)
	}
	u.counts[value]++
	u.total++
}

// AnalysisResult reports every observed value's share of the running total.
func (u *UsageAnalysis[T]) AnalysisResult() []Usage[T] {
	return u.resultAgainst(u.total)
}

// AnalysisResultWithTotal reports shares against a caller-supplied
// denominator instead of the running total. Multi-valued attributes (a
// set's move list) use this to express "fraction of appearances featuring
// this value" rather than a share of all occurrences.
func (u *UsageAnalysis[T]) AnalysisResultWithTotal(total int) []Usage[T] {
	return u.resultAgainst(total)
}

// resultAgainst always returns a non-nil slice so empty breakdowns
// serialize as [] rather than null.
func (u *UsageAnalysis[T]) resultAgainst(total int) []Usage[T] {
	result := make([]Usage[T], 0, len(u.order))
	for _, value := range u.order {
		result = append(result, Usage[T]{
			Value:      value,
			Percentage: float64(u.counts[value]) / float64(total),
		})
	}
	return result
}

// Values returns the distinct observed values in first-seen order.
func (u *UsageAnalysis[T]) Values() []T {
	return u.order
}

// Total returns the number of AddUsage calls so far.
func (u *UsageAnalysis[T]) Total() int {
	return u.total
}
