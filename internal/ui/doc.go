// Package ui provides the terminal browser for lister.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Each list kind (products, contacts) is a
// pane wrapping one pager.Controller. The Model never touches list data
// directly: it asks the controller for a snapshot whenever the controller
// signals a change, and it turns user intent into LoadNext and Refresh calls
// that run as tea.Cmds.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and Run
//   - pane.go: generic list pane, subscription plumbing and row layout
//   - view.go: header, tab bar, list window and footer rendering
//   - help.go: keyboard shortcut overlay
//   - theme.go, keys.go, layout.go: colors, bindings and sizing constants
//
// # Event Flow
//
//  1. Init mounts the initial pane, which issues its first LoadNext.
//  2. The controller notifies the pane's subscription; the pane wakes the
//     Model with listChangedMsg and the Model re-reads the state.
//  3. Moving the selection within LoadThreshold rows of the end issues
//     another LoadNext. The controller ignores it if a fetch is in flight.
//  4. r refreshes the list. After a failed page, scrolling or R retries it.
//  5. A ticker re-reads the source health store for the offline badge.
//
// A failed fetch never schedules another fetch by itself.
package ui
