// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package eventprocessor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/biographer/internal/store"
)

// TopicActivity carries audit records of admin writes and logins.
const TopicActivity = "activity"

// SchemaVersion is the current ActivityEvent schema version.
const SchemaVersion = 1

// Activity actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
)

// ActivityEvent records one state-changing action taken by a principal.
type ActivityEvent struct {
	SchemaVersion int       `json:"schemaVersion,omitempty"`
	EventID       string    `json:"eventId"`
	OccurredAt    time.Time `json:"occurredAt"`

	ActorID    string `json:"actorId"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resourceId,omitempty"`

	// Request context
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	Status    int    `json:"status,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// NewActivityEvent creates an event with a unique ID, timestamp, and schema version.
func NewActivityEvent(actorID, action, resource string) *ActivityEvent {
	return &ActivityEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		OccurredAt:    time.Now().UTC(),
		ActorID:       actorID,
		Action:        action,
		Resource:      resource,
	}
}

// ActionForMethod maps a write method onto an activity action. Safe methods
// map to the empty string.
func ActionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ""
	}
}

// Validate checks required fields.
func (e *ActivityEvent) Validate() error {
	switch {
	case e.EventID == "":
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	case e.ActorID == "":
		return fmt.Errorf("%w: actor_id is required", ErrInvalidEvent)
	case e.Action == "":
		return fmt.Errorf("%w: action is required", ErrInvalidEvent)
	case e.Resource == "":
		return fmt.Errorf("%w: resource is required", ErrInvalidEvent)
	case e.OccurredAt.IsZero():
		return fmt.Errorf("%w: occurred_at is required", ErrInvalidEvent)
	}
	return nil
}

// Document converts the event into a record for the activities collection.
// eventId is kept as a field so redelivered events collide on it.
func (e *ActivityEvent) Document() store.Document {
	doc := store.Document{
		"eventId":    e.EventID,
		"occurredAt": store.Timestamp(e.OccurredAt),
		"actorId":    e.ActorID,
		"action":     e.Action,
		"resource":   e.Resource,
	}
	optional := map[string]string{
		"resourceId": e.ResourceID,
		"method":     e.Method,
		"path":       e.Path,
		"ipAddress":  e.IPAddress,
		"userAgent":  e.UserAgent,
		"requestId":  e.RequestID,
	}
	for k, v := range optional {
		if v != "" {
			doc[k] = v
		}
	}
	if e.Status != 0 {
		doc["status"] = float64(e.Status)
	}
	return doc
}

// ActivitiesSpec declares the activities collection.
var ActivitiesSpec = store.Spec{Name: "activities", Unique: []string{"eventId"}}
