package pager

// merge folds incoming into items by ItemID. Known ids keep their position and
// take the incoming value; unknown ids are appended in incoming order. index
// maps ids to positions in items and is updated in place.
func merge[T Item](items []T, index map[string]int, incoming []T) []T {
	for _, item := range incoming {
		id := item.ItemID()
		if pos, ok := index[id]; ok {
			items[pos] = item
			continue
		}
		index[id] = len(items)
		items = append(items, item)
	}
	return items
}

// dedupe returns a fresh slice of items without repeated ids, along with its
// index. Positions follow first occurrence, values follow last occurrence.
func dedupe[T Item](items []T) ([]T, map[string]int) {
	index := make(map[string]int, len(items))
	out := merge(make([]T, 0, len(items)), index, items)
	return out, index
}

// NearEnd reports whether the row at visibleEnd is within threshold rows of the
// last loaded item, the usual trigger for fetching the next page while
// scrolling. An empty list is always near its end.
func NearEnd(visibleEnd, total, threshold int) bool {
	if total <= 0 {
		return true
	}
	if threshold < 0 {
		threshold = 0
	}
	return visibleEnd >= total-1-threshold
}
