package memory

// filterByDateRange retains records whose resolved timestamp falls inside
// rng, inclusive on both ends. With no bounds at all it is a pass-through,
// undated records included. Once any bound is supplied, undated records
// are dropped: a date-scoped query cannot vouch for a memory it cannot
// place in time. Input order is preserved.
func filterByDateRange(records []Record, rng DateRange) []Record {
	if rng.IsZero() {
		return records
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if record.Timestamp == nil {
			continue
		}
		if rng.Contains(*record.Timestamp) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
