package usecase_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/asesor-crm/internal/entity"
	"github.com/xavierca1/asesor-crm/internal/infra/memory"
	"github.com/xavierca1/asesor-crm/internal/infra/queue"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadEvent(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) events() []queue.LeadEvent {
	var out []queue.LeadEvent
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(queue.LeadEvent))
	}
	return out
}

func newPublisher() *MockEventPublisher {
	p := new(MockEventPublisher)
	p.On("PublishLeadEvent", mock.Anything, mock.Anything).Return(nil)
	return p
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, assignedTo string) ([]*entity.Lead, error) {
	args := m.Called(ctx, assignedTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, expected entity.LeadVersion, status entity.LeadStatus, fields entity.LeadUpdate, updatedAt time.Time) (*entity.Lead, error) {
	args := m.Called(ctx, id, expected, status, fields, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, entry *entity.ActivityLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByAdvisor(ctx context.Context, advisorID string) ([]*entity.ActivityLogEntry, error) {
	args := m.Called(ctx, advisorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ActivityLogEntry), args.Error(1)
}

// failingCounterRepo delega para o repositório em memória, mas falha o incremento.
type failingCounterRepo struct {
	entity.AdvisorProfileRepositoryInterface
	err error
}

func (r failingCounterRepo) IncrementCounter(ctx context.Context, userID string, metric entity.MetricType, updatedAt time.Time) (int, error) {
	return 0, r.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fixedTime() time.Time {
	return time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
}

// readBarrierRepo segura as primeiras `parties` leituras até todas chegarem,
// então leitores concorrentes validam contra o mesmo estado antes de escrever.
type readBarrierRepo struct {
	*memory.LeadRepository
	parties int32
	reads   atomic.Int32
	release chan struct{}
}

func newReadBarrierRepo(inner *memory.LeadRepository, parties int32) *readBarrierRepo {
	return &readBarrierRepo{LeadRepository: inner, parties: parties, release: make(chan struct{})}
}

func (r *readBarrierRepo) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := r.LeadRepository.FindByID(ctx, id)
	if n := r.reads.Add(1); n <= r.parties {
		if n == r.parties {
			close(r.release)
		}
		<-r.release
	}
	return lead, err
}
