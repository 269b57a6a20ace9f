// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package eventprocessor

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestNewActivityEvent(t *testing.T) {
	t.Parallel()

	e := NewActivityEvent("u-1", ActionCreate, "biographies")

	if e.EventID == "" {
		t.Error("EventID should be set")
	}
	if e.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", e.SchemaVersion, SchemaVersion)
	}
	if time.Since(e.OccurredAt) > time.Minute {
		t.Errorf("OccurredAt = %v, want about now", e.OccurredAt)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	other := NewActivityEvent("u-1", ActionCreate, "biographies")
	if other.EventID == e.EventID {
		t.Error("EventIDs should be unique")
	}
}

func TestActivityEvent_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ActivityEvent)
	}{
		{"missing event id", func(e *ActivityEvent) { e.EventID = "" }},
		{"missing actor", func(e *ActivityEvent) { e.ActorID = "" }},
		{"missing action", func(e *ActivityEvent) { e.Action = "" }},
		{"missing resource", func(e *ActivityEvent) { e.Resource = "" }},
		{"missing time", func(e *ActivityEvent) { e.OccurredAt = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewActivityEvent("u-1", ActionLogin, "auth")
			tt.mutate(e)
			if err := e.Validate(); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("Validate() = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestActionForMethod(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		http.MethodPost:   ActionCreate,
		http.MethodPut:    ActionUpdate,
		http.MethodPatch:  ActionUpdate,
		http.MethodDelete: ActionDelete,
		http.MethodGet:    "",
		http.MethodHead:   "",
	}
	for method, want := range tests {
		if got := ActionForMethod(method); got != want {
			t.Errorf("ActionForMethod(%s) = %q, want %q", method, got, want)
		}
	}
}

func TestActivityEvent_Document(t *testing.T) {
	t.Parallel()

	e := NewActivityEvent("u-1", ActionDelete, "faqs")
	e.ResourceID = "f-9"
	e.Status = http.StatusNoContent

	doc := e.Document()

	if doc["eventId"] != e.EventID {
		t.Errorf("eventId = %v, want %s", doc["eventId"], e.EventID)
	}
	if doc["resourceId"] != "f-9" {
		t.Errorf("resourceId = %v", doc["resourceId"])
	}
	if doc["status"] != float64(204) {
		t.Errorf("status = %v", doc["status"])
	}
	if _, ok := doc["userAgent"]; ok {
		t.Error("empty optional fields should be omitted")
	}
	if _, ok := doc["id"]; ok {
		t.Error("id is assigned by the store")
	}
}

func TestSerializer(t *testing.T) {
	t.Parallel()

	s := NewSerializer()

	e := NewActivityEvent("u-1", ActionUpdate, "settings")
	data, err := s.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := s.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.EventID != e.EventID || got.Resource != "settings" || !got.OccurredAt.Equal(e.OccurredAt) {
		t.Errorf("Unmarshal() = %+v, want %+v", got, e)
	}

	if _, err := s.Marshal(&ActivityEvent{}); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Marshal(invalid) = %v, want ErrInvalidEvent", err)
	}
	if _, err := s.Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal(garbage) should fail")
	}

	legacy, err := s.Unmarshal([]byte(`{"eventId":"e","actorId":"a","action":"login","resource":"auth"}`))
	if err != nil {
		t.Fatalf("Unmarshal(legacy) error = %v", err)
	}
	if legacy.SchemaVersion != SchemaVersion {
		t.Errorf("legacy SchemaVersion = %d, want %d", legacy.SchemaVersion, SchemaVersion)
	}
}
