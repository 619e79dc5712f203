package reviewing

import (
	"slices"
)

// Order is the direction to sort in, the zero value is Descending.
type Order int

const (
	Descending Order = iota
	Ascending
)

// AverageRating returns the mean rating, or 0 when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	var sum int
	for _, r := range reviews {
		sum += r.rating
	}

	return float64(sum) / float64(len(reviews))
}

// FilterByRating returns the reviews with exactly the given rating.
func FilterByRating(reviews []Review, rating int) []Review {
	ret := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.rating == rating {
			ret = append(ret, r)
		}
	}

	return ret
}

// SortByDate returns a sorted copy by creation time, reviews created at the same time keep their order.
func SortByDate(reviews []Review, order Order) []Review {
	return sortStable(reviews, order, func(a, b Review) int {
		return a.createdAt.Compare(b.createdAt)
	})
}

// SortByRating returns a sorted copy by rating, reviews with the same rating keep their order.
func SortByRating(reviews []Review, order Order) []Review {
	return sortStable(reviews, order, func(a, b Review) int {
		return a.rating - b.rating
	})
}

func sortStable(reviews []Review, order Order, cmp func(a, b Review) int) []Review {
	ret := slices.Clone(reviews)
	if order == Descending {
		asc := cmp
		cmp = func(a, b Review) int { return asc(b, a) }
	}

	slices.SortStableFunc(ret, cmp)

	return ret
}
