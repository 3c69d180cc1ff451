package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/memory"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

var base = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *memory.Store, id string, status entity.LeadStatus, updatedAt time.Time) {
	t.Helper()
	require.NoError(t, store.Leads().Create(context.Background(), &entity.Lead{
		ID:        id,
		FullName:  "Prospecto " + id,
		Intent:    entity.IntentBuy,
		Status:    status,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}))
}

func newWorker(store *memory.Store) *StaleLeadWorker {
	update := usecase.NewUpdateLeadStatusUseCase(store.Leads(), nil, nil)
	w := NewStaleLeadWorker(store.Leads(), update, 30*24*time.Hour, "@every 1h", nil)
	w.now = func() time.Time { return base }
	return w
}

func TestRunOnceArchivesOnlyStaleEarlyFunnelLeads(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	old := base.Add(-45 * 24 * time.Hour)

	seed(t, store, "viejo", entity.StatusInterested, old)
	seed(t, store, "reciente", entity.StatusInterested, base.Add(-2*24*time.Hour))
	seed(t, store, "en-cierre", entity.StatusReadyToClose, old)
	seed(t, store, "ganado", entity.StatusClosedWon, old)

	archived := newWorker(store).RunOnce(ctx)
	assert.Equal(t, 1, archived)

	lead, err := store.Leads().FindByID(ctx, "viejo")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchivedPotential, lead.Status)
	assert.Equal(t, "Sin actividad por 30 días", lead.CancellationReason)
	assert.NotNil(t, lead.ArchivedAt)

	for id, want := range map[string]entity.LeadStatus{
		"reciente":  entity.StatusInterested,
		"en-cierre": entity.StatusReadyToClose,
		"ganado":    entity.StatusClosedWon,
	} {
		lead, err := store.Leads().FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, lead.Status, id)
	}
}

// movingFinder devolve a varredura e, antes de o worker escrever, deixa um
// asesor mexer no lead.
type movingFinder struct {
	StaleLeadFinder
	afterList func()
}

func (f movingFinder) ListStale(ctx context.Context, statuses []entity.LeadStatus, before time.Time, limit int) ([]*entity.Lead, error) {
	leads, err := f.StaleLeadFinder.ListStale(ctx, statuses, before, limit)
	f.afterList()
	return leads, err
}

func TestRunOnceKeepsLeadTouchedAfterSweep(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	old := base.Add(-45 * 24 * time.Hour)
	seed(t, store, "movido", entity.StatusInterested, old)
	seed(t, store, "quieto", entity.StatusInterested, old)

	update := usecase.NewUpdateLeadStatusUseCase(store.Leads(), nil, nil)
	finder := movingFinder{
		StaleLeadFinder: store.Leads(),
		afterList: func() {
			_, err := update.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "movido", Status: string(entity.StatusAppointment)})
			require.NoError(t, err)
		},
	}
	w := NewStaleLeadWorker(finder, update, 30*24*time.Hour, "@every 1h", nil)
	w.now = func() time.Time { return base }

	assert.Equal(t, 1, w.RunOnce(ctx))

	moved, err := store.Leads().FindByID(ctx, "movido")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAppointment, moved.Status)
	assert.Empty(t, moved.CancellationReason)
	assert.Nil(t, moved.ArchivedAt)

	quiet, err := store.Leads().FindByID(ctx, "quieto")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchivedPotential, quiet.Status)
}

type brokenFinder struct{}

func (brokenFinder) ListStale(context.Context, []entity.LeadStatus, time.Time, int) ([]*entity.Lead, error) {
	return nil, errors.New("connection refused")
}

func TestRunOnceSurvivesFinderError(t *testing.T) {
	w := NewStaleLeadWorker(brokenFinder{}, nil, time.Hour, "@every 1h", nil)

	assert.Equal(t, 0, w.RunOnce(context.Background()))
}

func TestStartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := memory.NewStore()
	seed(t, store, "viejo", entity.StatusContacting, base.Add(-60*24*time.Hour))
	w := newWorker(store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool {
		lead, _ := store.Leads().FindByID(context.Background(), "viejo")
		return lead.Status == entity.StatusArchivedPotential
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker não encerrou")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewStaleLeadWorker(memory.NewStore().Leads(), nil, time.Hour, "toda hora", nil)

	assert.Error(t, w.Start(context.Background()))
}
