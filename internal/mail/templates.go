// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package mail

import (
	"fmt"
	"strings"
)

// SiteName appears in subjects and signatures.
const SiteName = "Biographies Website"

// ContactAcknowledgement thanks a visitor for a contact message.
func ContactAcknowledgement(to, name, subject string) *Message {
	return &Message{
		To:      to,
		Subject: "Thank you for contacting " + SiteName,
		Text: fmt.Sprintf("Hi %s,\n\nWe received your message %q and will get back to you soon.\n\n%s\n",
			greetingName(name), subject, SiteName),
	}
}

// AdminContactNotification tells the site admin about a new contact message.
func AdminContactNotification(adminEmail, name, email, subject, body string) *Message {
	return &Message{
		To:      adminEmail,
		Subject: "New Contact Message: " + subject,
		Text: fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s\n",
			name, email, subject, body),
	}
}

// TemporaryPassword tells a user that an admin reset their password.
func TemporaryPassword(to, name, password string) *Message {
	return &Message{
		To:      to,
		Subject: "Your " + SiteName + " password was reset",
		Text: fmt.Sprintf("Hi %s,\n\nAn administrator reset your password. Sign in with this temporary password and change it right away:\n\n%s\n\n%s\n",
			greetingName(name), password, SiteName),
	}
}

// NewsletterVerification carries the double opt-in link.
func NewsletterVerification(to, name, verifyURL string) *Message {
	return &Message{
		To:      to,
		Subject: "Confirm your newsletter subscription",
		Text: fmt.Sprintf("Hi %s,\n\nPlease confirm your subscription within 24 hours:\n\n%s\n\nIf you did not subscribe, ignore this email.\n",
			greetingName(name), verifyURL),
	}
}

// NewsletterWelcome confirms a verified subscription.
func NewsletterWelcome(to, name, unsubscribeURL string) *Message {
	return &Message{
		To:      to,
		Subject: "Welcome to the " + SiteName + " newsletter",
		Text: fmt.Sprintf("Hi %s,\n\nYour subscription is confirmed.\n\nUnsubscribe at any time: %s\n",
			greetingName(name), unsubscribeURL),
		Headers: unsubscribeHeaders(unsubscribeURL),
	}
}

// Campaign is one newsletter issue for one subscriber. content is the
// campaign HTML as stored by an admin.
func Campaign(to, subject, title, content, unsubscribeURL string) *Message {
	var html strings.Builder
	fmt.Fprintf(&html, "<h1>%s</h1>\n%s\n", title, content)
	fmt.Fprintf(&html, "<p>You're receiving this email because you subscribed to our newsletter. <a href=%q>Unsubscribe here</a></p>\n", unsubscribeURL)

	return &Message{
		To:      to,
		Subject: subject,
		HTML:    html.String(),
		Text:    fmt.Sprintf("%s\n\n%s\n\nUnsubscribe: %s\n", title, stripTags(content), unsubscribeURL),
		Headers: unsubscribeHeaders(unsubscribeURL),
	}
}

func unsubscribeHeaders(url string) map[string]string {
	if url == "" {
		return nil
	}
	return map[string]string{
		"List-Unsubscribe":      "<" + url + ">",
		"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
	}
}

func greetingName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "there"
}

// stripTags is a crude HTML to text fallback for the plain part.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
