package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ ObservationStore = (*SQLiteStore)(nil)
	_ ObservationStore = (*MockStore)(nil)
	_ ObservationStore = (*CachedStore)(nil)
)

func TestMockStore_Queries(t *testing.T) {
	m := NewMockStore(fixtureObservations()...)
	ctx := context.Background()

	all, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)

	iss, err := m.GetByTeam(ctx, "ISS")
	require.NoError(t, err)
	assert.Len(t, iss, 2)

	titan, err := m.GetByTarget(ctx, "Titan")
	require.NoError(t, err)
	require.Len(t, titan, 1)
	assert.Equal(t, 1, titan[0].ID)

	_, err = m.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMockStore_CountsCalls(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	assert.Equal(t, 0, m.TotalCalls())

	_, _ = m.GetAll(ctx)
	_, _ = m.GetAll(ctx)
	_, _ = m.GetByID(ctx, 1)

	assert.Equal(t, 2, m.Calls("GetAll"))
	assert.Equal(t, 1, m.Calls("GetByID"))
	assert.Equal(t, 0, m.Calls("GetByTeam"))
	assert.Equal(t, 3, m.TotalCalls())
}

func TestMockStore_Err(t *testing.T) {
	m := NewMockStore(fixtureObservations()...)
	m.Err = errors.New("disk on fire")

	_, err := m.GetAll(context.Background())
	assert.EqualError(t, err, "disk on fire")
}

func TestMockStore_ReturnsCopies(t *testing.T) {
	m := NewMockStore(fixtureObservations()...)
	ctx := context.Background()

	obs, err := m.GetByID(ctx, 1)
	require.NoError(t, err)
	obs.StartTimeUTC = "mutated"

	again, err := m.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2004-135T18:40:00", again.StartTimeUTC)
}
