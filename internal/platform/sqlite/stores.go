package sqlite

import (
	"database/sql"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/store"
)

// NewStores builds every SQLite store over db.
func NewStores(db *sql.DB, logger *slog.Logger) store.Stores {
	return store.Stores{
		DB:          db,
		Cards:       NewSQLiteCardStore(db, logger),
		Collections: NewSQLiteCollectionStore(db, logger),
		States:      NewSQLiteMemoryStateStore(db, logger),
		Logs:        NewSQLiteReviewLogStore(db, logger),
	}
}
