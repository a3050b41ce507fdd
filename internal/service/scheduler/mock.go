package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/history"
)

// MockService is a Func-field implementation of Service for handler tests.
// A nil Func returns zero values.
type MockService struct {
	FetchDueFunc                 func(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error)
	FetchForCramFunc             func(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error)
	CountDueFunc                 func(ctx context.Context, collectionID *uuid.UUID) (int, error)
	CommitReviewFunc             func(ctx context.Context, cardID uuid.UUID, rating domain.Rating, mode domain.ReviewMode) (*domain.ReviewLogEntry, error)
	ResetFunc                    func(ctx context.Context, cardID uuid.UUID) error
	PreviewFunc                  func(ctx context.Context, cardID uuid.UUID) (map[domain.Rating]time.Time, error)
	CardStateFunc                func(ctx context.Context, cardID uuid.UUID) (domain.CardState, error)
	CardDetailFunc               func(ctx context.Context, cardID uuid.UUID) (*CardDetail, error)
	FetchDeckStatisticsFunc      func(ctx context.Context, collectionID *uuid.UUID) (domain.DeckStats, error)
	FetchDeckStatisticsBatchFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.DeckStats, error)
	CreateCollectionFunc         func(ctx context.Context, name string) (*domain.Collection, error)
	ListCollectionsFunc          func(ctx context.Context) ([]*domain.Collection, error)
	DeleteCollectionFunc         func(ctx context.Context, collectionID uuid.UUID) (int, error)
	CreateCardFunc               func(ctx context.Context, collectionID *uuid.UUID, front, back string) (*domain.Card, error)
	GetCardFunc                  func(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)
	DeleteCardFunc               func(ctx context.Context, cardID uuid.UUID) error
	HistoryFunc                  func(ctx context.Context, cardID uuid.UUID) ([]history.Row, error)
	ExportHistoryFunc            func(ctx context.Context, collectionID *uuid.UUID) ([]history.Row, error)
}

var _ Service = (*MockService)(nil)

func (m *MockService) FetchDue(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error) {
	if m.FetchDueFunc != nil {
		return m.FetchDueFunc(ctx, collectionID, limit)
	}
	return nil, nil
}

func (m *MockService) FetchForCram(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error) {
	if m.FetchForCramFunc != nil {
		return m.FetchForCramFunc(ctx, collectionID, limit)
	}
	return nil, nil
}

func (m *MockService) CountDue(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	if m.CountDueFunc != nil {
		return m.CountDueFunc(ctx, collectionID)
	}
	return 0, nil
}

func (m *MockService) CommitReview(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.Rating,
	mode domain.ReviewMode,
) (*domain.ReviewLogEntry, error) {
	if m.CommitReviewFunc != nil {
		return m.CommitReviewFunc(ctx, cardID, rating, mode)
	}
	return nil, nil
}

func (m *MockService) Reset(ctx context.Context, cardID uuid.UUID) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, cardID)
	}
	return nil
}

func (m *MockService) Preview(ctx context.Context, cardID uuid.UUID) (map[domain.Rating]time.Time, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockService) CardState(ctx context.Context, cardID uuid.UUID) (domain.CardState, error) {
	if m.CardStateFunc != nil {
		return m.CardStateFunc(ctx, cardID)
	}
	return domain.Unreviewed{}, nil
}

func (m *MockService) CardDetail(ctx context.Context, cardID uuid.UUID) (*CardDetail, error) {
	if m.CardDetailFunc != nil {
		return m.CardDetailFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockService) FetchDeckStatistics(ctx context.Context, collectionID *uuid.UUID) (domain.DeckStats, error) {
	if m.FetchDeckStatisticsFunc != nil {
		return m.FetchDeckStatisticsFunc(ctx, collectionID)
	}
	return domain.DeckStats{}, nil
}

func (m *MockService) FetchDeckStatisticsBatch(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.DeckStats, error) {
	if m.FetchDeckStatisticsBatchFunc != nil {
		return m.FetchDeckStatisticsBatchFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockService) CreateCollection(ctx context.Context, name string) (*domain.Collection, error) {
	if m.CreateCollectionFunc != nil {
		return m.CreateCollectionFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockService) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	if m.ListCollectionsFunc != nil {
		return m.ListCollectionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockService) DeleteCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	if m.DeleteCollectionFunc != nil {
		return m.DeleteCollectionFunc(ctx, collectionID)
	}
	return 0, nil
}

func (m *MockService) CreateCard(
	ctx context.Context,
	collectionID *uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, collectionID, front, back)
	}
	return nil, nil
}

func (m *MockService) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFunc != nil {
		return m.GetCardFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockService) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(ctx, cardID)
	}
	return nil
}

func (m *MockService) History(ctx context.Context, cardID uuid.UUID) ([]history.Row, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, cardID)
	}
	return nil, nil
}

func (m *MockService) ExportHistory(ctx context.Context, collectionID *uuid.UUID) ([]history.Row, error) {
	if m.ExportHistoryFunc != nil {
		return m.ExportHistoryFunc(ctx, collectionID)
	}
	return nil, nil
}
