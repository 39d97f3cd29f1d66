package memory

import (
	"sort"
)

// buildTimeline merges both modality record sets into one sequence ordered
// by resolved timestamp ascending. Ties and undated records are settled
// deterministically: text records are appended before image records, so the
// stable sort leaves text ahead of image on equal timestamps and preserves
// each modality's original rank. Undated records (only possible on
// unscoped queries) trail all dated ones in input order.
func buildTimeline(textRecords, imageRecords []Record) []Record {
	timeline := make([]Record, 0, len(textRecords)+len(imageRecords))
	timeline = append(timeline, textRecords...)
	timeline = append(timeline, imageRecords...)

	sort.SliceStable(timeline, func(i, j int) bool {
		ti, tj := timeline[i].Timestamp, timeline[j].Timestamp
		if ti == nil || tj == nil {
			// only "dated before undated" is an ordering
			return ti != nil && tj == nil
		}
		return ti.Before(*tj)
	})

	return timeline
}
