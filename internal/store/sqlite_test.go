package store

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath, testLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func fixtureObservations() []*Observation {
	return []*Observation{
		{
			ID:                1,
			StartTimeUTC:      "2004-135T18:40:00",
			Duration:          StringPtr("000T10:00:00"),
			Date:              StringPtr("14-May-04"),
			Team:              StringPtr("ISS"),
			SpassType:         StringPtr("Prime"),
			Target:            StringPtr("Titan"),
			RequestName:       StringPtr("SURVEY"),
			LibraryDefinition: StringPtr("Imaging"),
			Title:             StringPtr("Titan survey"),
			Description:       StringPtr("Global mosaic of Titan"),
		},
		{
			ID:           2,
			StartTimeUTC: "2004-136T00:00:00",
			Team:         StringPtr("CAPS"),
			Target:       StringPtr("Saturn"),
		},
		{
			ID:           3,
			StartTimeUTC: "2004-137T06:00:00",
			Team:         StringPtr("ISS"),
			Target:       StringPtr("titan"),
		},
	}
}

func seedTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := setupTestStore(t)
	require.NoError(t, s.Insert(context.Background(), fixtureObservations()...))
	return s
}

func TestSQLiteStore_EmptyDatabase(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "plan.db")

	s, err := NewSQLiteStore(dbPath, testLogger())
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), fixtureObservations()...))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath, testLogger())
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteStore_GetByID(t *testing.T) {
	s := seedTestStore(t)
	ctx := context.Background()

	obs, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2004-135T18:40:00", obs.StartTimeUTC)
	require.NotNil(t, obs.Description)
	assert.Equal(t, "Global mosaic of Titan", *obs.Description)
	require.NotNil(t, obs.LibraryDefinition)
	assert.Equal(t, "Imaging", *obs.LibraryDefinition)

	sparse, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, sparse.Duration)
	assert.Nil(t, sparse.Title)
	assert.Nil(t, sparse.Description)
}

func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	s := seedTestStore(t)

	_, err := s.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_GetByTarget_ExactMatch(t *testing.T) {
	s := seedTestStore(t)
	ctx := context.Background()

	titan, err := s.GetByTarget(ctx, "Titan")
	require.NoError(t, err)
	require.Len(t, titan, 1)
	assert.Equal(t, 1, titan[0].ID)

	lower, err := s.GetByTarget(ctx, "titan")
	require.NoError(t, err)
	require.Len(t, lower, 1)
	assert.Equal(t, 3, lower[0].ID)

	none, err := s.GetByTarget(ctx, "Enceladus")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_GetByTeam(t *testing.T) {
	s := seedTestStore(t)

	iss, err := s.GetByTeam(context.Background(), "ISS")
	require.NoError(t, err)
	require.Len(t, iss, 2)
	assert.Equal(t, 1, iss[0].ID)
	assert.Equal(t, 3, iss[1].ID)
}

func TestSQLiteStore_GetAllOrdered(t *testing.T) {
	s := seedTestStore(t)

	all, err := s.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, o := range all {
		assert.Equal(t, i+1, o.ID)
	}
}

func TestSQLiteStore_InsertDuplicateFails(t *testing.T) {
	s := seedTestStore(t)

	err := s.Insert(context.Background(), &Observation{ID: 1, StartTimeUTC: "2004-001T00:00:00"})
	assert.Error(t, err)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSQLiteStore_ConcurrentReaders(t *testing.T) {
	s := seedTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.GetAll(ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent read failed: %v", err)
	}
}

func TestSQLiteStore_MemoryDatabase(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", testLogger())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Insert(context.Background(), fixtureObservations()...))
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNewSQLiteStore_UsesGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "logged.db"), logger)
	require.NoError(t, err)
	defer s.Close()

	assert.Contains(t, buf.String(), "SQLite store initialized")
}
