// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

/*
Package services adapts biographer components to suture.Service.

Each wrapper turns a component's own lifecycle (ListenAndServe, Run, a
periodic sweep) into Serve(ctx) and names itself through fmt.Stringer so
suture's log lines identify it:

  - HTTPServerService: *http.Server with graceful shutdown
  - SweeperService: runs a Sweep func on an interval (memory cache,
    rate limit buckets)
  - EventRouterService: runs the watermill router that consumes activity
    events

A non-nil error from Serve makes the parent supervisor restart the service
with backoff. Returning ctx.Err() after cancellation is a clean stop.
*/
package services
