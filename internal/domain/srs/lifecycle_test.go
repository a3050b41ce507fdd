package srs

import (
	"testing"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from   domain.Stage
		rating domain.Rating
		want   domain.Stage
	}{
		{domain.StageNew, domain.RatingAgain, domain.StageLearning},
		{domain.StageNew, domain.RatingEasy, domain.StageLearning},
		{domain.StageLearning, domain.RatingAgain, domain.StageLearning},
		{domain.StageLearning, domain.RatingHard, domain.StageReview},
		{domain.StageLearning, domain.RatingGood, domain.StageReview},
		{domain.StageReview, domain.RatingAgain, domain.StageRelearning},
		{domain.StageReview, domain.RatingHard, domain.StageReview},
		{domain.StageReview, domain.RatingEasy, domain.StageReview},
		{domain.StageRelearning, domain.RatingAgain, domain.StageRelearning},
		{domain.StageRelearning, domain.RatingHard, domain.StageReview},
		{domain.StageRelearning, domain.RatingGood, domain.StageReview},
		// out-of-range ratings behave as Good
		{domain.StageReview, domain.Rating(5), domain.StageReview},
		{domain.StageLearning, domain.Rating(-1), domain.StageReview},
	}

	for _, tc := range testCases {
		t.Run(tc.from.String()+"/"+tc.rating.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, Transition(tc.from, tc.rating))
		})
	}
}
