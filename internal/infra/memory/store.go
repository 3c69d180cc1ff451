// Package memory implementa os repositórios em memória. Segue a semântica do
// banco remoto (zero linhas afetadas = entity.ErrNotFound, colunas NOT NULL,
// incremento atômico) e é usado nos testes e no modo local da API.
package memory

import (
	"sync"

	"github.com/xavierca1/asesor-crm/internal/entity"
)

type Store struct {
	mu           sync.RWMutex
	leads        map[string]*entity.Lead
	appointments map[string]*entity.Appointment
	rentals      map[string]*entity.RentalApplication
	profiles     map[string]*entity.AdvisorProfile
	activity     []*entity.ActivityLogEntry
}

func NewStore() *Store {
	return &Store{
		leads:        make(map[string]*entity.Lead),
		appointments: make(map[string]*entity.Appointment),
		rentals:      make(map[string]*entity.RentalApplication),
		profiles:     make(map[string]*entity.AdvisorProfile),
	}
}

func (s *Store) Leads() *LeadRepository {
	return &LeadRepository{s: s}
}

func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{s: s}
}

func (s *Store) RentalApplications() *RentalApplicationRepository {
	return &RentalApplicationRepository{s: s}
}

func (s *Store) AdvisorProfiles() *AdvisorProfileRepository {
	return &AdvisorProfileRepository{s: s}
}

func (s *Store) ActivityLog() *ActivityLogRepository {
	return &ActivityLogRepository{s: s}
}

// PutAppointment grava a cita como o formulário externo faria.
func (s *Store) PutAppointment(a entity.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = &a
}

// PutRentalApplication grava a solicitação como o formulário externo faria.
func (s *Store) PutRentalApplication(r entity.RentalApplication) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rentals[r.ID] = &r
}

// ProfileCount conta as linhas de asesor_profiles.
func (s *Store) ProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	c.AssignedTo = cloneString(l.AssignedTo)
	c.ReferredBy = cloneString(l.ReferredBy)
	if l.PaymentDate != nil {
		v := *l.PaymentDate
		c.PaymentDate = &v
	}
	if l.InvestigationScore != nil {
		v := *l.InvestigationScore
		c.InvestigationScore = &v
	}
	if l.CommissionAmount != nil {
		v := *l.CommissionAmount
		c.CommissionAmount = &v
	}
	if l.ArchivedAt != nil {
		v := *l.ArchivedAt
		c.ArchivedAt = &v
	}
	return &c
}
