// Package pager keeps a one-dimensional, page-numbered list in sync with a
// remote Source.
//
// # Overview
//
// A Controller owns the loaded items, the cursor (next page to request) and
// two busy flags. UI hosts drive it with two signals:
//
//   - LoadNext: reach-end / infinite scroll. Fetches the page at the cursor,
//     merges it by ItemID and advances the cursor.
//   - Refresh: pull-to-refresh. Refetches the first page and replaces the list.
//
// Both are safe to fire repeatedly. A LoadNext that arrives while a fetch is in
// flight, or after the source reported HasMore=false, returns ErrSkipped
// without touching the source.
//
// # Merging
//
// Pages are merged by ItemID. An id already in the list keeps its position and
// takes the newer value; new ids are appended in response order. The list only
// grows downward while paging.
//
// # Ordering
//
// Each fetch is tagged with the controller generation at dispatch time.
// Refresh and Close bump the generation, so a LoadNext response that lands
// after a Refresh started is dropped instead of merged into the reset list.
// The source is never asked to abort; Close only cancels the fetch context.
//
// # Errors
//
// Source failures come back as *SourceError and leave the list, cursor and
// HasMore as they were, so the same call can be retried. ErrSkipped is not a
// failure and should not be reported to users.
//
// # Usage
//
//	ctrl := pager.New[catalog.Product](src, pager.WithLogger(logger))
//	defer ctrl.Close()
//
//	if err := ctrl.LoadNext(ctx); err != nil && !errors.Is(err, pager.ErrSkipped) {
//		// show retry affordance
//	}
//	st := ctrl.State()
package pager
