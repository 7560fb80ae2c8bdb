// Package store provides read-only access to the Cassini master plan.
//
// # Architecture
//
// ObservationStore is the repository the MCP tools query. Three implementations
// exist:
//
//   - SQLiteStore: the master_plan table in a SQLite database (modernc.org/sqlite)
//   - CachedStore: an LRU read-through cache wrapping any ObservationStore
//   - MockStore: an in-memory store that also counts calls, for tests
//
// # Data Model
//
// Observation mirrors one master_plan row. start_time_utc is always present and
// uses day-of-year notation (2004-135T18:40:00). Every other column may be NULL
// and is represented as a nil *string.
//
// # Schema
//
// NewSQLiteStore creates the master_plan table and its indexes (date, spass_type,
// target, team) when they are missing. There are no migrations; the dataset is
// loaded out of band.
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/cassini/master_plan.db", logger)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	cached, err := store.NewCachedStore(s, 256, 5*time.Minute, logger)
//	titan, err := cached.GetByTarget(ctx, "Titan")
package store
