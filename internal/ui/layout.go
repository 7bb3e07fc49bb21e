package ui

import "time"

// Layout constants.
const (
	// chromeHeight is the rows used by header, tab bar and footer.
	chromeHeight = 3

	// LoadThreshold is how many rows before the end of the loaded items
	// the selection may reach before the next page is requested.
	LoadThreshold = 5

	// LayoutCompactWidth is the width below which secondary columns are hidden.
	LayoutCompactWidth = 80
)

// Timing constants.
const (
	// DefaultUIInterval is how often the header re-reads source health.
	DefaultUIInterval = time.Second
)
