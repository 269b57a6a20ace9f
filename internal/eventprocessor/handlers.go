// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package eventprocessor

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/biographer/internal/logging"
	"github.com/tomtom215/biographer/internal/metrics"
	"github.com/tomtom215/biographer/internal/store"
)

// ActivityRecorder persists activity events to the activities collection.
type ActivityRecorder struct {
	activities store.Collection
	serializer *Serializer
}

// NewActivityRecorder creates the activity consumer.
func NewActivityRecorder(activities store.Collection) *ActivityRecorder {
	return &ActivityRecorder{
		activities: activities,
		serializer: NewSerializer(),
	}
}

// Handle is a message.NoPublishHandlerFunc. Malformed payloads are dropped
// since retrying cannot fix them; store errors are returned so the router
// retries. A redelivered event collides on eventId and counts as done.
func (h *ActivityRecorder) Handle(msg *message.Message) error {
	event, err := h.serializer.Unmarshal(msg.Payload)
	if err == nil {
		err = event.Validate()
	}
	if err != nil {
		metrics.RecordEventProcessed(TopicActivity, err)
		logging.Warn().
			Err(err).
			Str("message_uuid", msg.UUID).
			Msg("Dropping malformed activity event")
		return nil
	}

	_, err = h.activities.Insert(msg.Context(), event.Document())
	if errors.Is(err, store.ErrDuplicate) {
		err = nil
	}
	metrics.RecordEventProcessed(TopicActivity, err)
	if err != nil {
		return fmt.Errorf("persist activity %s: %w", event.EventID, err)
	}

	logging.Debug().
		Str("event_id", event.EventID).
		Str("actor_id", event.ActorID).
		Str("action", event.Action).
		Str("resource", event.Resource).
		Msg("Activity recorded")
	return nil
}
