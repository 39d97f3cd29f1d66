package mcpserver

import (
	"fmt"
	"strings"

	"github.com/habiliai/memorymap/memory"
)

const defaultMaxTextLength = 500

// Formatter renders memory service results as the plain-text responses the
// MCP tools return. Agents read these directly, so the format favors
// labeled lines over JSON.
type Formatter struct {
	MaxTextLength int
}

func NewFormatter() *Formatter {
	return &Formatter{MaxTextLength: defaultMaxTextLength}
}

func (f *Formatter) FormatSearchResults(result *memory.SearchResult, memoryType string) string {
	if result.Count == 0 {
		return fmt.Sprintf("No %s memories found for query: '%s'", memoryType, result.Query)
	}

	parts := []string{fmt.Sprintf("Found %d %s memories for '%s':\n", result.Count, memoryType, result.Query)}
	for idx, record := range result.Memories {
		parts = append(parts, fmt.Sprintf("\n--- %s Memory %d ---", capitalize(string(record.Modality)), idx+1))
		parts = append(parts, fmt.Sprintf("Relevance Score: %.4f", record.Score))
		parts = append(parts, f.formatMetadata(record)...)
		parts = append(parts, f.formatContent(record, f.MaxTextLength)...)
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) FormatDateSearch(result *memory.SearchResult, startDate, endDate string) string {
	var dateInfo string
	switch {
	case startDate != "" && endDate != "":
		dateInfo = "from " + startDate + " to " + endDate
	case startDate != "":
		dateInfo = "from " + startDate
	case endDate != "":
		dateInfo = "until " + endDate
	}

	if dateInfo != "" {
		dateInfo = " " + dateInfo
	}

	if result.Count == 0 {
		return fmt.Sprintf("No memories found for '%s'%s", result.Query, dateInfo)
	}

	parts := []string{fmt.Sprintf("Found %d memories for '%s'%s:\n", result.Count, result.Query, dateInfo)}
	for idx, record := range result.Memories {
		parts = append(parts, fmt.Sprintf("\n--- Memory %d (%s) ---", idx+1, record.Modality))
		parts = append(parts, fmt.Sprintf("Relevance Score: %.4f", record.Score))
		parts = append(parts, f.formatMetadata(record)...)
		parts = append(parts, f.formatContent(record, 400)...)
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) FormatSynthesis(result *memory.SynthesisResult) string {
	if result.Counts.Total == 0 {
		return "No memories found for synthesis"
	}

	divider := strings.Repeat("=", 50)
	parts := []string{
		"=== MEMORY SYNTHESIS ===\n",
		synthesisSummary(result),
		"\n" + divider + "\n",
		"\nCHRONOLOGICAL TIMELINE:\n",
	}

	for idx, record := range result.Timeline {
		date := "Unknown date"
		if record.Timestamp != nil {
			date = record.Timestamp.Format("2006-01-02")
		}

		parts = append(parts, fmt.Sprintf("\n[%s] Memory %d (%s)", date, idx+1, strings.ToUpper(string(record.Modality))))
		parts = append(parts, fmt.Sprintf("  Relevance: %.4f", record.Score))

		if title, ok := record.Metadata["title"].(string); ok && title != "" {
			parts = append(parts, "  Title: "+title)
		}
		if tags, ok := record.Metadata["tags"].(string); ok && tags != "" {
			parts = append(parts, "  Tags: "+tags)
		}

		switch record.Modality {
		case memory.ModalityText:
			parts = append(parts, "  Content: "+truncate(record.Content, 300))
		case memory.ModalityImage:
			if description, ok := record.Metadata["description"].(string); ok && description != "" {
				parts = append(parts, "  Description: "+description)
			}
			parts = append(parts, "  Image: "+metadataString(record.Metadata, "source"))
		}
	}

	parts = append(parts,
		"\n"+divider,
		fmt.Sprintf("\nSUMMARY: %d text + %d images = %d total memories",
			result.Counts.Text, result.Counts.Image, result.Counts.Total),
		"\nUse this chronological timeline to craft a coherent narrative story for the user.",
	)

	return strings.Join(parts, "\n")
}

func (f *Formatter) FormatStats(stats *memory.Stats) string {
	return fmt.Sprintf(
		"Memory Statistics:\n\n"+
			"Total Memories: %d\n"+
			"├── Text Memories: %d\n"+
			"└── Image Memories: %d",
		stats.Total, stats.Text, stats.Image,
	)
}

func (f *Formatter) FormatRecentMemories(records []memory.Record, memoryType string) string {
	if len(records) == 0 {
		return fmt.Sprintf("No %s memories found.", memoryType)
	}

	parts := []string{fmt.Sprintf("Recent %s memories (showing %d):\n", memoryType, len(records))}
	for idx, record := range records {
		parts = append(parts, fmt.Sprintf("\n--- Memory %d (%s) ---", idx+1, record.Modality))
		parts = append(parts, f.formatMetadata(record)...)
		parts = append(parts, f.formatContent(record, 300)...)
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) formatMetadata(record memory.Record) []string {
	var parts []string

	if title, ok := record.Metadata["title"].(string); ok && title != "" {
		parts = append(parts, "Title: "+title)
	}
	if record.Timestamp != nil {
		parts = append(parts, "Date: "+record.Timestamp.Format("2006-01-02"))
	}
	if tags, ok := record.Metadata["tags"].(string); ok && tags != "" {
		parts = append(parts, "Tags: "+tags)
	}

	return parts
}

func (f *Formatter) formatContent(record memory.Record, maxLen int) []string {
	switch record.Modality {
	case memory.ModalityImage:
		var parts []string
		if description, ok := record.Metadata["description"].(string); ok && description != "" {
			parts = append(parts, "Description: "+description)
		}
		parts = append(parts, "Image Path: "+metadataString(record.Metadata, "file_path"))
		return parts
	default:
		return []string{"Content: " + truncate(record.Content, maxLen)}
	}
}

func synthesisSummary(result *memory.SynthesisResult) string {
	summary := fmt.Sprintf("Synthesized %d memories for '%s'", result.Counts.Total, result.Query)
	if result.Range.Start != nil {
		summary += " from " + result.Range.Start.Format("2006-01-02")
	}
	if result.Range.End != nil {
		summary += " to " + result.Range.End.Format("2006-01-02")
	}
	return summary + "."
}

func metadataString(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok && v != "" {
		return v
	}
	return "N/A"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
