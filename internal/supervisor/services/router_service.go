// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package services

import (
	"context"
	"errors"
	"fmt"
)

// EventRouter is the lifecycle of eventprocessor.Router.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventRouterService runs the activity event router. The router stops its
// handlers when ctx is canceled, so Serve returns once Run does.
type EventRouterService struct {
	router EventRouter
	name   string
}

// NewEventRouterService wraps router.
func NewEventRouterService(router EventRouter) *EventRouterService {
	return &EventRouterService{router: router, name: "event-router"}
}

// Serve implements suture.Service.
func (s *EventRouterService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("event router stopped: %w", err)
	}
	return errors.New("event router exited without error")
}

func (s *EventRouterService) String() string {
	return s.name
}
