// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package newsletter

import "errors"

var (
	// ErrAlreadySubscribed is returned when a verified address subscribes again.
	ErrAlreadySubscribed = errors.New("email already subscribed")

	// ErrInvalidVerification is returned for an unknown or expired
	// verification token.
	ErrInvalidVerification = errors.New("invalid or expired verification token")

	// ErrInvalidUnsubscribe is returned for an unknown unsubscribe token.
	ErrInvalidUnsubscribe = errors.New("invalid unsubscribe token")

	// ErrNoSubscription is returned when a principal has no subscriber record.
	ErrNoSubscription = errors.New("no subscription found")

	// ErrVerificationMail is returned when the verification email could not
	// be sent. The pending token is cleared.
	ErrVerificationMail = errors.New("error sending verification email")

	// ErrAlreadySent is returned when sending a campaign twice.
	ErrAlreadySent = errors.New("campaign has already been sent")

	// ErrCampaignSending is returned when a campaign is already being sent.
	ErrCampaignSending = errors.New("campaign is already sending")
)
