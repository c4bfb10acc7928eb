package audit

import (
	"time"

	id "stableford/pkg/domain"
)

// EventCategory classifies audit events so sinks can route and retain them
// differently.
type EventCategory string

const (
	// CategoryRecord covers changes to a player's official handicap record.
	// These are the events a handicap committee reviews.
	CategoryRecord EventCategory = "record"

	// CategoryScoring covers round lifecycle and score entry.
	CategoryScoring EventCategory = "scoring"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	PlayerID  id.PlayerID   `json:"player_id"`
	// ActorID is who performed the action when different from the player,
	// e.g. a club official entering a handicap.
	ActorID string `json:"actor_id,omitempty"`
	Subject string `json:"subject"`
	Action  string `json:"action"`
	Reason  string `json:"reason,omitempty"`
}

type AuditEvent string

const (
	EventHandicapInserted   AuditEvent = "handicap_inserted"
	EventHandicapSuperseded AuditEvent = "handicap_superseded"
	EventHandicapUpdated    AuditEvent = "handicap_updated"
	EventHandicapDeleted    AuditEvent = "handicap_deleted"

	EventRoundCreated   AuditEvent = "round_created"
	EventRoundUpdated   AuditEvent = "round_updated"
	EventRoundDeleted   AuditEvent = "round_deleted"
	EventScoreRecorded  AuditEvent = "score_recorded"
	EventScoreDeleted   AuditEvent = "score_deleted"
	EventRoundFinalized AuditEvent = "round_finalized"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventHandicapInserted:   CategoryRecord,
	EventHandicapSuperseded: CategoryRecord,
	EventHandicapUpdated:    CategoryRecord,
	EventHandicapDeleted:    CategoryRecord,

	EventRoundCreated:   CategoryScoring,
	EventRoundUpdated:   CategoryScoring,
	EventRoundDeleted:   CategoryScoring,
	EventScoreRecorded:  CategoryScoring,
	EventScoreDeleted:   CategoryScoring,
	EventRoundFinalized: CategoryScoring,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryScoring.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryScoring
}
