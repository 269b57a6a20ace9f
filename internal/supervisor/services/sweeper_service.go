// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package services

import (
	"context"
	"time"

	"github.com/tomtom215/biographer/internal/logging"
)

// SweepFunc removes expired entries and reports how many it dropped.
type SweepFunc func() int

// SweeperService calls a SweepFunc on a fixed interval. It backs the
// in-memory response cache and the rate limiter's bucket table, both of
// which only expire entries lazily on read.
type SweeperService struct {
	name     string
	interval time.Duration
	sweep    SweepFunc
}

// NewSweeperService creates a sweeper. A non-positive interval means 1m.
func NewSweeperService(name string, interval time.Duration, sweep SweepFunc) *SweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperService{name: name, interval: interval, sweep: sweep}
}

// Serve implements suture.Service.
func (s *SweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logging.Debug().Str("service", s.name).Int("removed", n).Msg("Swept expired entries")
			}
		}
	}
}

func (s *SweeperService) String() string {
	return s.name
}
