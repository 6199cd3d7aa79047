// Package outbox records domain events in the same transaction as the write
// that caused them, and relays them to the broker only after commit.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "electoral/pkg/domain"
)

// EventType names what happened.
type EventType string

const (
	EventUserRegistered          EventType = "user_registered"
	EventAgentAssigned           EventType = "agent_assigned"
	EventCandidateNominated      EventType = "candidate_nominated"
	EventCandidateUpdated        EventType = "candidate_updated"
	EventNominationStatusChanged EventType = "nomination_status_changed"
	EventCandidateWithdrawn      EventType = "candidate_withdrawn"
	EventVoterMarked             EventType = "voter_marked"
	EventVoterUnmarked           EventType = "voter_unmarked"
	EventProfileUpdated          EventType = "profile_updated"
)

// Event is one outbox row.
type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	Type          EventType
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// Payload is the JSON body carried by every event. Consumers only read the
// fields relevant to the event type.
type Payload struct {
	EventID     string        `json:"event_id"`
	Type        EventType     `json:"type"`
	UserID      id.UserID     `json:"user_id"`
	ElectionID  id.ElectionID `json:"election_id,omitempty"`
	CandidateID int64         `json:"candidate_id,omitempty"`
	BoothID     int64         `json:"booth_id,omitempty"`
	Status      string        `json:"status,omitempty"`
	ActorID     id.UserID     `json:"actor_id,omitempty"`
	RequestID   string        `json:"request_id,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// New builds an event for aggregate (aggregateType, aggregateID).
func New(eventType EventType, aggregateType, aggregateID string, p Payload, now time.Time) (Event, error) {
	eventID := uuid.New()
	p.EventID = eventID.String()
	p.Type = eventType
	p.OccurredAt = now
	body, err := json.Marshal(p)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:            eventID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Type:          eventType,
		Payload:       body,
		CreatedAt:     now,
	}, nil
}

// DecodePayload parses an event body produced by New.
func DecodePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("decode outbox payload: %w", err)
	}
	return p, nil
}
