package postgres

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/store"
)

// NewStores builds every PostgreSQL store over db.
func NewStores(db *sql.DB, logger *slog.Logger) store.Stores {
	return store.Stores{
		DB:          db,
		Cards:       NewPostgresCardStore(db, logger),
		Collections: NewPostgresCollectionStore(db, logger),
		States:      NewPostgresMemoryStateStore(db, logger),
		Logs:        NewPostgresReviewLogStore(db, logger),
	}
}
