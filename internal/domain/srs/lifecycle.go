package srs

import "github.com/phrazzld/scry-srs/internal/domain"

// Transition returns the lifecycle stage after a review with the given rating.
//
//	New        -> Learning   (any rating)
//	Learning   -> Review     (rating > Again), Learning otherwise
//	Review     -> Relearning (Again), Review otherwise
//	Relearning -> Review     (rating > Again), Relearning otherwise
//
// Out-of-range ratings behave as Good.
func Transition(stage domain.Stage, rating domain.Rating) domain.Stage {
	again := rating.Normalize() == domain.RatingAgain

	switch stage {
	case domain.StageNew:
		return domain.StageLearning
	case domain.StageLearning, domain.StageRelearning:
		if again {
			return stage
		}
		return domain.StageReview
	case domain.StageReview:
		if again {
			return domain.StageRelearning
		}
		return domain.StageReview
	default:
		// Unknown stages restart the cycle.
		return domain.StageLearning
	}
}
