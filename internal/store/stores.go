package store

import "database/sql"

// Stores groups the stores of one backend with the connection their
// transactions are started on.
type Stores struct {
	DB          *sql.DB
	Cards       CardStore
	Collections CollectionStore
	States      MemoryStateStore
	Logs        ReviewLogStore
}
