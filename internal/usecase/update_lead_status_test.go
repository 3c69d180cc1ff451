package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/memory"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
	"github.com/xavierca1/asesor-crm/internal/usecase"
)

func seedLead(t *testing.T, repo entity.LeadRepositoryInterface, id string, status entity.LeadStatus, updatedAt time.Time) {
	t.Helper()
	advisor := "asesor-A"
	err := repo.Create(context.Background(), &entity.Lead{
		ID:         id,
		FullName:   "Carlos Ruiz",
		Intent:     entity.IntentRent,
		Status:     status,
		AssignedTo: &advisor,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	})
	require.NoError(t, err)
}

func predecessorOf(target entity.LeadStatus) entity.LeadStatus {
	for _, s := range entity.AllLeadStatuses {
		if s != target && entity.CanTransition(s, target) {
			return s
		}
	}
	return target
}

func TestUpdateLeadStatusRefreshesUpdatedAtForEveryStatus(t *testing.T) {
	ctx := context.Background()
	previous := fixedTime()

	for _, target := range entity.AllLeadStatuses {
		t.Run(string(target), func(t *testing.T) {
			store := memory.NewStore()
			seedLead(t, store.Leads(), "lead-1", predecessorOf(target), previous)

			uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)
			// relógio empatado com a última escrita
			uc.Now = fixedClock(previous)

			out, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "lead-1", Status: string(target)})
			require.NoError(t, err)
			assert.Equal(t, target, out.Lead.Status)
			assert.True(t, out.Lead.UpdatedAt.After(previous), "updated_at deve avançar")

			stored, err := store.Leads().FindByID(ctx, "lead-1")
			require.NoError(t, err)
			assert.Equal(t, target, stored.Status)
			assert.Equal(t, out.Lead.UpdatedAt, stored.UpdatedAt)
		})
	}
}

func TestUpdateLeadStatusUsesClockWhenAhead(t *testing.T) {
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusContacting, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)
	later := fixedTime().Add(time.Hour)
	uc.Now = fixedClock(later)

	out, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "interested"})

	require.NoError(t, err)
	assert.Equal(t, later, out.Lead.UpdatedAt)
	assert.Equal(t, entity.StatusContacting, out.PreviousStatus)
}

func TestUpdateLeadStatusNotFound(t *testing.T) {
	uc := usecase.NewUpdateLeadStatusUseCase(memory.NewStore().Leads(), newPublisher(), nil)

	out, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{
		ID:     "9f1c2d3e-aaaa-bbbb-cccc-000000000000",
		Status: "interested",
	})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, usecase.IsNotFoundError(err))
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.False(t, usecase.IsTechnicalError(err))
	assert.Contains(t, err.Error(), "9f1c2d3e...")
	assert.Contains(t, err.Error(), "registrado como prospecto")
}

func TestUpdateLeadStatusRowVanishesBetweenReadAndWrite(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1", Status: entity.StatusAppointment, UpdatedAt: fixedTime()}, nil)
	repo.On("UpdateStatus", mock.Anything, "lead-1", mock.Anything, entity.StatusInvestigationPaid, mock.Anything, mock.Anything).Return(nil, entity.ErrNotFound)
	uc := usecase.NewUpdateLeadStatusUseCase(repo, newPublisher(), nil)

	_, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "investigation_paid"})

	assert.True(t, usecase.IsNotFoundError(err))
}

func TestUpdateLeadStatusWritesAgainstTheVersionItRead(t *testing.T) {
	read := &entity.Lead{ID: "lead-1", Status: entity.StatusAppointment, UpdatedAt: fixedTime()}
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(read, nil)
	repo.On("UpdateStatus", mock.Anything, "lead-1", read.Version(), entity.StatusInvestigationPaid, mock.Anything, mock.Anything).
		Return(nil, entity.ErrConflict)
	pub := newPublisher()
	uc := usecase.NewUpdateLeadStatusUseCase(repo, pub, nil)

	_, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "investigation_paid"})

	assert.True(t, usecase.IsConflictError(err))
	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.False(t, usecase.IsTechnicalError(err))
	repo.AssertExpectations(t)
	assert.Empty(t, pub.events())
}

func TestConcurrentTransitionsFromSameStateOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusReadyToClose, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(newReadBarrierRepo(store.Leads(), 2), newPublisher(), nil)

	targets := []entity.LeadStatus{entity.StatusClosedWon, entity.StatusClosedLost}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "lead-1", Status: string(target)})
		}()
	}
	wg.Wait()

	var winner entity.LeadStatus
	conflicts := 0
	for i, err := range errs {
		if err == nil {
			winner = targets[i]
			continue
		}
		assert.True(t, usecase.IsConflictError(err), err)
		conflicts++
	}
	require.Equal(t, 1, conflicts)

	lead, err := store.Leads().FindByID(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, winner, lead.Status)
}

func TestUpdateLeadStatusRejectsStaleExpectation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusInterested, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)

	seen := entity.LeadVersion{Status: entity.StatusContacting, UpdatedAt: fixedTime().Add(-time.Hour)}
	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		ID:       "lead-1",
		Status:   string(entity.StatusArchivedPotential),
		Expected: &seen,
	})

	assert.True(t, usecase.IsConflictError(err))
	lead, _ := store.Leads().FindByID(ctx, "lead-1")
	assert.Equal(t, entity.StatusInterested, lead.Status)
	assert.Nil(t, lead.ArchivedAt)
}

func TestUpdateLeadStatusStoreError(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("FindByID", mock.Anything, "lead-1").Return(nil, errors.New("JWT expired"))
	uc := usecase.NewUpdateLeadStatusUseCase(repo, newPublisher(), nil)

	_, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "interested"})

	assert.True(t, usecase.IsTechnicalError(err))
	assert.False(t, usecase.IsNotFoundError(err))
}

func TestUpdateLeadStatusRejectsIllegalTransition(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusContacting, fixedTime())
	pub := newPublisher()
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), pub, nil)

	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "closed_won"})

	var it *usecase.InvalidTransitionError
	require.True(t, errors.As(err, &it))
	assert.Equal(t, entity.StatusContacting, it.From)
	assert.Equal(t, entity.StatusClosedWon, it.To)

	stored, _ := store.Leads().FindByID(ctx, "lead-1")
	assert.Equal(t, entity.StatusContacting, stored.Status)
	assert.Equal(t, fixedTime(), stored.UpdatedAt)
	pub.AssertNotCalled(t, "PublishLeadEvent", mock.Anything, mock.Anything)
}

func TestUpdateLeadStatusRejectsUnknownStatus(t *testing.T) {
	uc := usecase.NewUpdateLeadStatusUseCase(memory.NewStore().Leads(), newPublisher(), nil)

	_, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "pagado"})

	assert.True(t, usecase.IsValidationError(err))
}

func TestUpdateLeadStatusMergesExtraFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusInvestigating, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)

	score := 91
	notes := "Buró sin adeudos"
	investigation := "passed"
	out, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		ID:     "lead-1",
		Status: "investigation_passed",
		Fields: entity.LeadUpdate{
			InvestigationScore:  &score,
			InvestigationNotes:  &notes,
			InvestigationStatus: &investigation,
		},
	})

	require.NoError(t, err)
	require.NotNil(t, out.Lead.InvestigationScore)
	assert.Equal(t, 91, *out.Lead.InvestigationScore)
	assert.Equal(t, "Buró sin adeudos", out.Lead.InvestigationNotes)
	assert.Equal(t, "Carlos Ruiz", out.Lead.FullName)
}

func TestUpdateLeadStatusValidatesExtraFields(t *testing.T) {
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusInvestigating, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)

	score := 140
	bad := entity.PaymentStatus("paid")
	_, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{
		ID:     "lead-1",
		Status: "investigation_passed",
		Fields: entity.LeadUpdate{InvestigationScore: &score, PaymentStatus: &bad},
	})

	var de *usecase.DomainError
	require.True(t, errors.As(err, &de))
	assert.Len(t, de.Fields, 2)
}

func TestUpdateLeadStatusArchivingStampsArchivedAt(t *testing.T) {
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusMeetingDoubts, fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)
	now := fixedTime().Add(48 * time.Hour)
	uc.Now = fixedClock(now)

	reason := "Busca en otra zona, retomar en enero"
	out, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{
		ID:     "lead-1",
		Status: "archived_potential",
		Fields: entity.LeadUpdate{CancellationReason: &reason},
	})

	require.NoError(t, err)
	require.NotNil(t, out.Lead.ArchivedAt)
	assert.Equal(t, now, *out.Lead.ArchivedAt)
	assert.Equal(t, reason, out.Lead.CancellationReason)
}

func TestUpdateLeadStatusPublishesOnlyRealChanges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.StatusAppointment, fixedTime())
	pub := newPublisher()
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), pub, nil)

	signed := true
	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "appointment", Fields: entity.LeadUpdate{DocumentsSigned: &signed}})
	require.NoError(t, err)
	assert.Empty(t, pub.events())

	_, err = uc.Execute(ctx, usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "ready_to_close"})
	require.NoError(t, err)
	events := pub.events()
	require.Len(t, events, 1)
	assert.Equal(t, queue.EventLeadStatusChanged, events[0].Type)
	assert.Equal(t, "appointment", events[0].FromStatus)
	assert.Equal(t, "ready_to_close", events[0].ToStatus)
	assert.Equal(t, "asesor-A", events[0].AdvisorID)
}

func TestUpdateLeadStatusAcceptsLegacyStatus(t *testing.T) {
	store := memory.NewStore()
	seedLead(t, store.Leads(), "lead-1", entity.LeadStatus("nuevo"), fixedTime())
	uc := usecase.NewUpdateLeadStatusUseCase(store.Leads(), newPublisher(), nil)

	out, err := uc.Execute(context.Background(), usecase.UpdateLeadStatusInput{ID: "lead-1", Status: "appointment"})

	require.NoError(t, err)
	assert.Equal(t, entity.LeadStatus("nuevo"), out.PreviousStatus)
}
