package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dated(id string, year int, month time.Month, day int) Record {
	ts := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Record{ID: id, Modality: ModalityText, Timestamp: &ts}
}

func undated(id string) Record {
	return Record{ID: id, Modality: ModalityText}
}

func recordIDs(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFilterByDateRange_NoBoundsPassThrough(t *testing.T) {
	records := []Record{
		dated("a", 2024, time.March, 1),
		undated("b"),
		dated("c", 2030, time.January, 1),
	}

	filtered := filterByDateRange(records, DateRange{})
	assert.Equal(t, []string{"a", "b", "c"}, recordIDs(filtered))
}

func TestFilterByDateRange_DropsUndatedWhenBounded(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	records := []Record{
		dated("a", 2024, time.March, 1),
		undated("b"),
		dated("c", 2023, time.December, 31),
	}

	filtered := filterByDateRange(records, DateRange{Start: &start})
	assert.Equal(t, []string{"a"}, recordIDs(filtered))
}

func TestFilterByDateRange_InclusiveBounds(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	records := []Record{
		dated("start", 2024, time.March, 1),
		dated("mid", 2024, time.March, 15),
		dated("end", 2024, time.March, 31),
		dated("before", 2024, time.February, 29),
		dated("after", 2024, time.April, 1),
	}

	filtered := filterByDateRange(records, DateRange{Start: &start, End: &end})
	assert.Equal(t, []string{"start", "mid", "end"}, recordIDs(filtered))
}

func TestFilterByDateRange_PreservesOrder(t *testing.T) {
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	records := []Record{
		dated("z", 2024, time.June, 3),
		dated("a", 2024, time.January, 9),
		dated("m", 2024, time.March, 20),
	}

	filtered := filterByDateRange(records, DateRange{End: &end})
	// relevance order in, relevance order out
	assert.Equal(t, []string{"z", "a", "m"}, recordIDs(filtered))
}
