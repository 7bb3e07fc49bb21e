// Package state tracks page source health for the lister UI.
//
// # Overview
//
// Every fetch issued through an observed source (see source.Observed) records
// its outcome here. The UI header reads snapshots to show an offline badge
// and the last failure without reaching into individual list controllers.
//
//	Fetch goroutines:              UI:
//	┌────────────────┐            ┌──────────────────┐
//	│ FetchPage()    │            │                  │
//	│      ↓         │            │                  │
//	│ store.Record() │───────────→│ store.Snapshot() │
//	└────────────────┘  (mutex)   └──────────────────┘
//
// # Semantics
//
//   - Record(nil): counts a fetch, clears LastError, resets ConsecutiveFailures.
//   - Record(err): counts a failure and keeps the error for display.
//   - Record(context.Canceled): ignored. Cancelled fetches come from list
//     teardown, not from an unhealthy source.
//
// IsOffline reports two or more consecutive failures, so a single dropped
// request does not flash the badge.
//
// Snapshot returns copies; the stored error is re-wrapped so callers never
// share the stored instance.
package state
