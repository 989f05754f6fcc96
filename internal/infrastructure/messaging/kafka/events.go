// Package kafka carries catalog-refresh events between the API server and
// the worker.  A refresh event names the entity type whose source data
// changed; the worker invalidates the cached snapshot and re-indexes search.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// RefreshEvent signals that catalog source data changed for one entity type.
// An empty EntityType means the whole catalog should be refreshed.
type RefreshEvent struct {
	ID         string             `json:"id"`
	EntityType catalog.EntityType `json:"entityType,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	EmittedAt  time.Time          `json:"emittedAt"`
}

// NewRefreshEvent creates an event with a fresh id and timestamp.
func NewRefreshEvent(entityType catalog.EntityType, reason string) RefreshEvent {
	return RefreshEvent{
		ID:         uuid.NewString(),
		EntityType: entityType,
		Reason:     reason,
		EmittedAt:  time.Now().UTC(),
	}
}

// Encode serializes the event for the wire.
func (e RefreshEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "encode refresh event")
	}
	return data, nil
}

// DecodeRefreshEvent parses a wire payload.
func DecodeRefreshEvent(data []byte) (RefreshEvent, error) {
	var e RefreshEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return RefreshEvent{}, errors.Wrap(err, errors.CodeSerialization, "decode refresh event")
	}
	return e, nil
}
