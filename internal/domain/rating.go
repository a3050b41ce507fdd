package domain

import "fmt"

// Rating is the 0-3 recall-quality signal submitted after a review.
// Values outside the valid set are stored verbatim in the review log and
// treated as Good everywhere a behavior has to be derived from them.
type Rating int

// Rating values.
const (
	RatingAgain Rating = 0
	RatingHard  Rating = 1
	RatingGood  Rating = 2
	RatingEasy  Rating = 3
)

// AllRatings lists the valid ratings in ascending order.
var AllRatings = [...]Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}

var ratingNames = [...]string{
	RatingAgain: "again",
	RatingHard:  "hard",
	RatingGood:  "good",
	RatingEasy:  "easy",
}

// IsValid reports whether r is one of Again, Hard, Good or Easy.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Normalize returns r if it is valid and RatingGood otherwise.
func (r Rating) Normalize() Rating {
	if r.IsValid() {
		return r
	}
	return RatingGood
}

// String returns the lowercase rating name. Invalid values render as
// "rating(n)" so the raw value stays visible in logs.
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("rating(%d)", int(r))
}

// Label returns the name of the rating's effective behavior.
func (r Rating) Label() string {
	return ratingNames[r.Normalize()]
}

// ParseRating converts a rating name ("again", "hard", "good", "easy") to a Rating.
func ParseRating(s string) (Rating, error) {
	for i, name := range ratingNames {
		if name == s {
			return Rating(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rating %q", ErrValidation, s)
}
