package checklist

import "fmt"

// Rating is the tier a percentage score falls into.
type Rating string

const (
	RatingExcellent     Rating = "EXCELLENT"
	RatingGood          Rating = "GOOD"
	RatingVeryPoor      Rating = "VERY_POOR"
	RatingAchievedScore Rating = "ACHIEVED_SCORE"
)

// Inclusive lower bounds supplied by the franchise owner.
const (
	ExcellentThreshold = 92.6
	GoodThreshold      = 72.8
	VeryPoorThreshold  = 22.0
)

// Classify maps a percentage to its rating tier. It never fails: values
// outside [0, 100] and NaN fall through the same comparisons.
func Classify(percentage float64) Rating {
	switch {
	case percentage >= ExcellentThreshold:
		return RatingExcellent
	case percentage >= GoodThreshold:
		return RatingGood
	case percentage >= VeryPoorThreshold:
		return RatingVeryPoor
	default:
		return RatingAchievedScore
	}
}

// Rank orders tiers from lowest (0) to highest (3).
func (r Rating) Rank() int {
	switch r {
	case RatingExcellent:
		return 3
	case RatingGood:
		return 2
	case RatingVeryPoor:
		return 1
	default:
		return 0
	}
}

func (r Rating) Label() string {
	switch r {
	case RatingExcellent:
		return "Excellent"
	case RatingGood:
		return "Good"
	case RatingVeryPoor:
		return "Very poor"
	case RatingAchievedScore:
		return "Achieved score"
	default:
		return string(r)
	}
}

func ParseRating(s string) (Rating, error) {
	switch r := Rating(s); r {
	case RatingExcellent, RatingGood, RatingVeryPoor, RatingAchievedScore:
		return r, nil
	}
	return "", fmt.Errorf("unknown rating %q", s)
}
