package entity

import "fmt"

type LeadStatus string

const (
	StatusContacting          LeadStatus = "contacting"
	StatusInterested          LeadStatus = "interested"
	StatusMeetingDoubts       LeadStatus = "meeting_doubts"
	StatusPropertyLoading     LeadStatus = "property_loading"
	StatusPropertySigning     LeadStatus = "property_signing"
	StatusPublished           LeadStatus = "published"
	StatusAppointment         LeadStatus = "appointment"
	StatusInvestigationPaid   LeadStatus = "investigation_paid"
	StatusInvestigating       LeadStatus = "investigating"
	StatusInvestigationPassed LeadStatus = "investigation_passed"
	StatusInvestigationFailed LeadStatus = "investigation_failed"
	StatusReadyToClose        LeadStatus = "ready_to_close"
	StatusClosedWon           LeadStatus = "closed_won"
	StatusClosedLost          LeadStatus = "closed_lost"
	StatusArchivedPotential   LeadStatus = "archived_potential"
)

// AllLeadStatuses segue a ordem do funil.
var AllLeadStatuses = []LeadStatus{
	StatusContacting,
	StatusInterested,
	StatusMeetingDoubts,
	StatusPropertyLoading,
	StatusPropertySigning,
	StatusPublished,
	StatusAppointment,
	StatusInvestigationPaid,
	StatusInvestigating,
	StatusInvestigationPassed,
	StatusInvestigationFailed,
	StatusReadyToClose,
	StatusClosedWon,
	StatusClosedLost,
	StatusArchivedPotential,
}

// Transições do funil. closed_lost e archived_potential são alcançáveis a partir
// de qualquer estado não terminal e são adicionados em init.
var leadTransitions = map[LeadStatus][]LeadStatus{
	StatusContacting:          {StatusInterested},
	StatusInterested:          {StatusMeetingDoubts, StatusPropertyLoading, StatusAppointment},
	StatusMeetingDoubts:       {StatusPropertyLoading, StatusAppointment},
	StatusPropertyLoading:     {StatusPropertySigning},
	StatusPropertySigning:     {StatusPublished},
	StatusPublished:           {StatusAppointment},
	StatusAppointment:         {StatusInvestigationPaid, StatusReadyToClose},
	StatusInvestigationPaid:   {StatusInvestigating},
	StatusInvestigating:       {StatusInvestigationPassed, StatusInvestigationFailed},
	StatusInvestigationPassed: {StatusReadyToClose},
	StatusInvestigationFailed: {StatusAppointment},
	StatusReadyToClose:        {StatusClosedWon},
	StatusClosedWon:           {},
	StatusClosedLost:          {StatusArchivedPotential},
	StatusArchivedPotential:   {StatusContacting},
}

func init() {
	for from, next := range leadTransitions {
		if from.Terminal() || from == StatusArchivedPotential {
			continue
		}
		leadTransitions[from] = append(next, StatusClosedLost, StatusArchivedPotential)
	}
}

func (s LeadStatus) Valid() bool {
	_, ok := leadTransitions[s]
	return ok
}

// Terminal indica estados de fechamento.
func (s LeadStatus) Terminal() bool {
	return s == StatusClosedWon || s == StatusClosedLost
}

func ParseLeadStatus(raw string) (LeadStatus, error) {
	s := LeadStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("status de lead desconhecido: %q", raw)
	}
	return s, nil
}

// NextStatuses devolve uma cópia dos destinos permitidos a partir de s.
func NextStatuses(s LeadStatus) []LeadStatus {
	next := leadTransitions[s]
	out := make([]LeadStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition valida from -> to. Repetir o mesmo status é permitido (só
// atualiza campos extras). Um from vazio ou fora do vocabulário vem de linhas
// gravadas antes da validação existir e aceita qualquer destino válido.
func CanTransition(from, to LeadStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to || !from.Valid() {
		return true
	}
	for _, s := range leadTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
