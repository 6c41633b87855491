package domain

import (
	"math"
	"strconv"
)

// NoRating is how an aggregate over zero reviews is displayed.
const NoRating = "無し"

// Aggregate is a product's displayed rating: the arithmetic mean of its
// review ratings rounded to one decimal place. It is derived, never stored.
type Aggregate struct {
	Count int
	Mean  float64
}

// AggregateRatings recomputes the aggregate from the full rating set.
func AggregateRatings(rates []int) Aggregate {
	if len(rates) == 0 {
		return Aggregate{}
	}
	sum := 0
	for _, r := range rates {
		sum += r
	}
	mean := float64(sum) / float64(len(rates))
	return Aggregate{
		Count: len(rates),
		Mean:  math.Round(mean*10) / 10,
	}
}

func (a Aggregate) String() string {
	if a.Count == 0 {
		return NoRating
	}
	return strconv.FormatFloat(a.Mean, 'f', 1, 64)
}
