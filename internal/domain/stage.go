package domain

import "fmt"

// Stage is the lifecycle stage of a card.
type Stage int

// Lifecycle stages. The numeric values are persisted.
const (
	StageNew        Stage = 0
	StageLearning   Stage = 1
	StageReview     Stage = 2
	StageRelearning Stage = 3
)

var stageNames = [...]string{
	StageNew:        "new",
	StageLearning:   "learning",
	StageReview:     "review",
	StageRelearning: "relearning",
}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	return s >= StageNew && s <= StageRelearning
}

// IsScheduled reports whether cards in this stage can become due by date.
func (s Stage) IsScheduled() bool {
	return s == StageReview || s == StageRelearning
}

// String returns the lowercase stage name.
func (s Stage) String() string {
	if s.IsValid() {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage converts a stage name to a Stage.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStage, name)
}
