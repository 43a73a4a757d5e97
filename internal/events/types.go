// Package events publishes generation outcomes to Redis Streams so
// downstream deployment tooling can react to new scrapers without polling
// the record store.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sourcegen/internal/models"
)

// StreamName is the Redis stream generation events are appended to.
const StreamName = "sourcegen:events"

// EventType represents the type of generation event.
type EventType string

// ScraperGenerated is emitted once per domain when a pipeline run reaches
// a terminal status, whether or not it succeeded.
const ScraperGenerated EventType = "scraper.generated"

// GenerationEvent is the envelope appended to the stream.
type GenerationEvent struct {
	EventID   uuid.UUID         `json:"event_id"`
	EventType EventType         `json:"event_type"`
	RecordID  string            `json:"record_id"`
	Domain    string            `json:"domain"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   GenerationPayload `json:"payload"`
}

// GenerationPayload carries the verdict for consumers that do not want to
// fetch the full record.
type GenerationPayload struct {
	Status      string  `json:"status"`
	Template    string  `json:"template,omitempty"`
	SuccessRate float64 `json:"success_rate"`
	DurationMS  int64   `json:"duration_ms"`
	Error       string  `json:"error,omitempty"`
}

// FromRecord builds the event for a finished generation record. EventID and
// Timestamp are left zero; Publish fills them on send.
func FromRecord(record models.GenerationRecord) GenerationEvent {
	payload := GenerationPayload{
		Status:     string(record.Status),
		DurationMS: record.Duration.Milliseconds(),
		Error:      record.Error,
	}
	if !record.Artifact.IsEmpty() {
		payload.Template = string(record.Artifact.TemplateUsed)
	}
	if record.Report != nil {
		payload.SuccessRate = record.Report.SuccessRate
	}
	return GenerationEvent{
		EventType: ScraperGenerated,
		RecordID:  record.ID,
		Domain:    record.Domain,
		Payload:   payload,
	}
}
