// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// Security event names.
const (
	EventLoginSuccess    = "login_success"
	EventLoginFailed     = "login_failed"
	EventLogout          = "logout"
	EventRegistered      = "registered"
	EventPasswordChanged = "password_changed"
	EventPasswordReset   = "password_reset"
)

// SecurityEvent is an account event written to the auth audit log.
type SecurityEvent struct {
	Event     string
	UserID    string
	Email     string
	IPAddress string
	UserAgent string
	Success   bool
	// Error is the failure reason; ignored when Success is set.
	Error   string
	Details map[string]string
}

// SecurityLogger writes account events with personal data masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	var e *zerolog.Event
	if event.Success {
		e = l.logger.Info().Str("status", "success")
	} else {
		e = l.logger.Warn().Str("status", "failed")
	}
	e = e.Str("event", event.Event)

	if event.UserID != "" {
		e = e.Str("user_id", SanitizeUserID(event.UserID))
	}
	if event.Email != "" {
		e = e.Str("email", SanitizeEmail(event.Email))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogLoginSuccess logs a successful login.
func (l *SecurityLogger) LogLoginSuccess(userID, email, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventLoginSuccess,
		UserID:    userID,
		Email:     email,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure logs a rejected login. reason is a short machine
// readable cause such as "bad_credentials".
func (l *SecurityLogger) LogLoginFailure(email, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventLoginFailed,
		Email:     email,
		IPAddress: ip,
		UserAgent: userAgent,
		Error:     reason,
	})
}

// LogLogout logs a logout.
func (l *SecurityLogger) LogLogout(userID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventLogout,
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogRegistration logs a new self-registered account.
func (l *SecurityLogger) LogRegistration(userID, email, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventRegistered,
		UserID:    userID,
		Email:     email,
		IPAddress: ip,
		Success:   true,
	})
}

// LogPasswordChange logs a password update. Failed attempts carry the reason.
func (l *SecurityLogger) LogPasswordChange(userID, ip string, success bool, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventPasswordChanged,
		UserID:    userID,
		IPAddress: ip,
		Success:   success,
		Error:     reason,
	})
}

// LogPasswordReset logs an admin replacing a user's password.
func (l *SecurityLogger) LogPasswordReset(adminID, userID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     EventPasswordReset,
		UserID:    userID,
		IPAddress: ip,
		Success:   true,
		Details:   map[string]string{"admin_id": SanitizeUserID(adminID)},
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks a user ID.
// Example: "5f2b9c1e-0d4a-4f7e-9c1a-2b3c4d5e6f70" -> "5f2b...6f70"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	atIndex := strings.Index(email, "@")
	if atIndex <= 0 {
		return "***"
	}

	localPart := email[:atIndex]
	domain := email[atIndex:]

	if len(localPart) <= 2 {
		return "***" + domain
	}
	return localPart[:2] + "***" + domain
}

// SanitizeError replaces messages that mention credentials with a generic
// one and truncates the rest.
func SanitizeError(err string) string {
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			return "authentication error"
		}
	}

	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	switch strings.ToLower(key) {
	case "token", "jwt", "password", "secret", "authorization", "bearer", "cookie":
		return SanitizeToken(value)
	}

	if strings.Contains(value, "@") && strings.Contains(value, ".") {
		return SanitizeEmail(value)
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
