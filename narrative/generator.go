package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/habiliai/memorymap/config"
	"github.com/habiliai/memorymap/memory"
	"github.com/pkg/errors"
)

const systemPrompt = `You are a memory narrator. Given a chronological timeline of a person's saved memories (text notes and photos), write a short first-person narrative that ties them together. Stay factual: mention only what the memories contain, keep dates in order, and note when a memory has no date. Two to four paragraphs.`

// Generator turns a synthesis timeline into a prose narrative using Claude.
type Generator struct {
	client anthropic.Client
	config *config.NarrativeConfig
}

func NewGenerator(conf *config.NarrativeConfig) (*Generator, error) {
	if conf.AnthropicAPIKey == "" {
		return nil, errors.New("anthropic API key is not configured - set ANTHROPIC_API_KEY")
	}
	client := anthropic.NewClient(
		option.WithAPIKey(conf.AnthropicAPIKey),
	)
	return &Generator{client: client, config: conf}, nil
}

// Generate writes a narrative for the synthesis result. An empty timeline
// returns an empty narrative without calling the model.
func (g *Generator) Generate(ctx context.Context, result *memory.SynthesisResult) (string, error) {
	if len(result.Timeline) == 0 {
		return "", nil
	}

	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.config.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(renderTimeline(result))),
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to generate narrative")
	}

	var narrative strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			narrative.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(narrative.String())
	if text == "" {
		return "", errors.New("empty response from narrative model")
	}
	return text, nil
}

// renderTimeline flattens the timeline into the prompt the model sees.
func renderTimeline(result *memory.SynthesisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Query: %s\n", result.Query)
	if !result.Range.IsZero() {
		if result.Range.Start != nil {
			fmt.Fprintf(&sb, "From: %s\n", result.Range.Start.Format("2006-01-02"))
		}
		if result.Range.End != nil {
			fmt.Fprintf(&sb, "To: %s\n", result.Range.End.Format("2006-01-02"))
		}
	}
	sb.WriteString("\nTimeline:\n")

	for i, record := range result.Timeline {
		date := "undated"
		if record.Timestamp != nil {
			date = record.Timestamp.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "%d. [%s] (%s) %s\n", i+1, date, record.Modality, record.Content)
	}

	return sb.String()
}
