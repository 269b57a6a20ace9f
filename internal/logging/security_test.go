// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "***"},
		{"exactlytwelv", "***"},
		{"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9", "eyJh...VCJ9"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.input); got != tt.expected {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"12345678", "***"},
		{"5f2b9c1e-0d4a-4f7e-9c1a-2b3c4d5e6f70", "5f2b...6f70"},
	}

	for _, tt := range tests {
		if got := SanitizeUserID(tt.input); got != tt.expected {
			t.Errorf("SanitizeUserID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"no-at-sign", "***"},
		{"@example.com", "***"},
		{"jo@example.com", "***@example.com"},
		{"john.doe@example.com", "jo***@example.com"},
	}

	for _, tt := range tests {
		if got := SanitizeEmail(tt.input); got != tt.expected {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError("wrong password for user"); got != "authentication error" {
		t.Errorf("SanitizeError() = %q", got)
	}
	if got := SanitizeError("bad_credentials"); got != "bad_credentials" {
		t.Errorf("SanitizeError() = %q", got)
	}
	if got := SanitizeError(strings.Repeat("x", 300)); len(got) != 203 {
		t.Errorf("SanitizeError() length = %d, want 203", len(got))
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	if got := SanitizeValue("JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"); got != "eyJh...VCJ9" {
		t.Errorf("jwt = %q", got)
	}
	if got := SanitizeValue("contact", "john.doe@example.com"); got != "jo***@example.com" {
		t.Errorf("email value = %q", got)
	}
	if got := SanitizeValue("route", "/api/v1/auth/login"); got != "/api/v1/auth/login" {
		t.Errorf("plain value = %q", got)
	}
}

func TestSecurityLogger_LogLoginSuccess(t *testing.T) {
	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogLoginSuccess("5f2b9c1e-0d4a-4f7e-9c1a-2b3c4d5e6f70", "john.doe@example.com", "192.168.1.1", "Mozilla/5.0")

	output := buf.String()
	for _, want := range []string{`"event":"login_success"`, `"status":"success"`, `"level":"info"`, "5f2b...6f70", "jo***@example.com", `"component":"auth"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
	if strings.Contains(output, "john.doe@") {
		t.Errorf("email leaked: %s", output)
	}
}

func TestSecurityLogger_LogLoginFailure(t *testing.T) {
	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogLoginFailure("john.doe@example.com", "10.0.0.1", strings.Repeat("A", 150), "bad_credentials")

	output := buf.String()
	for _, want := range []string{`"event":"login_failed"`, `"status":"failed"`, `"level":"warn"`, `"error":"bad_credentials"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
	if strings.Contains(output, strings.Repeat("A", 101)) {
		t.Errorf("user agent not truncated: %s", output)
	}
}

func TestSecurityLogger_PasswordChange(t *testing.T) {
	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogPasswordChange("5f2b9c1e-0d4a-4f7e-9c1a-2b3c4d5e6f70", "10.0.0.1", true, "ignored on success")

	output := buf.String()
	if !strings.Contains(output, EventPasswordChanged) {
		t.Errorf("expected event name: %s", output)
	}
	if strings.Contains(output, "ignored on success") {
		t.Errorf("error field written for a success: %s", output)
	}
}

func TestSecurityLogger_PasswordReset(t *testing.T) {
	var buf bytes.Buffer
	secLog := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	secLog.LogPasswordReset("9a8b7c6d-0000-4000-8000-1234567890ab", "user-1", "10.0.0.1")

	output := buf.String()
	for _, want := range []string{EventPasswordReset, `"admin_id":"9a8b...90ab"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}
