//go:build integration

package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmkivinen/trialreg/internal/adapter/postgres/event"
	"github.com/jmkivinen/trialreg/internal/adapter/postgres/testhelper"
	"github.com/jmkivinen/trialreg/internal/domain"
)

func seedEvent(t *testing.T, repo *event.Repo) *domain.Event {
	t.Helper()
	e := &domain.Event{
		ID:        "event-" + t.Name(),
		EventType: "NOME-B",
		Name:      "NOME-B Hämeenlinna",
		State:     domain.EventStateConfirmed,
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
		Classes: []domain.EventClass{
			{Class: "ALO", Places: 10},
			{Class: "AVO", Places: 10},
		},
		Priority: []string{"member"},
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestRepo_CreateAndGet(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := event.New(pool)

	want := seedEvent(t, repo)

	got, err := repo.Get(context.Background(), want.ID)
	require.NoError(t, err)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.State, got.State)
	require.Len(t, got.Classes, 2)
	require.True(t, got.PrioritizesMembers())
}

func TestRepo_Get_NotFound(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := event.New(pool)

	_, err := repo.Get(context.Background(), "ghost")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepo_UpdateCounts(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := event.New(pool)
	ctx := context.Background()

	e := seedEvent(t, repo)
	e.Entries = 7
	e.Members = 3
	e.Classes[0].Entries = 4
	e.Classes[0].Members = 2

	require.NoError(t, repo.UpdateCounts(ctx, e))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.Entries)
	require.Equal(t, 3, got.Members)
	require.Equal(t, 4, got.Class("ALO").Entries)
}

func TestRepo_UpdateState(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := event.New(pool)
	ctx := context.Background()

	e := seedEvent(t, repo)
	e.State = domain.EventStatePicked
	e.Classes[0].State = domain.EventStatePicked

	require.NoError(t, repo.UpdateState(ctx, e))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, domain.EventStatePicked, got.State)
	require.Equal(t, domain.EventStatePicked, got.Class("ALO").State)
	require.Equal(t, "", got.Class("AVO").State)
}

func TestRepo_Update_NotFound(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := event.New(pool)

	err := repo.UpdateCounts(context.Background(), &domain.Event{ID: "ghost"})
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
