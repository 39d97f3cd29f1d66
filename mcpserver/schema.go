package mcpserver

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

type (
	searchMemoriesArgs struct {
		Query    string `json:"query" jsonschema:"required,description=Natural language search query (e.g. 'memories about my trip to Japan')"`
		NResults int    `json:"n_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Number of results to return"`
	}

	searchByDateArgs struct {
		Query     string `json:"query" jsonschema:"required,description=Natural language search query"`
		StartDate string `json:"start_date,omitempty" jsonschema:"description=Start of the date range (e.g. '2024-03-01' or 'March 1 2024')"`
		EndDate   string `json:"end_date,omitempty" jsonschema:"description=End of the date range (inclusive)"`
		NResults  int    `json:"n_results,omitempty" jsonschema:"minimum=1,maximum=20,default=5,description=Number of results to return"`
	}

	synthesizeArgs struct {
		Query     string `json:"query" jsonschema:"required,description=Topic to synthesize memories around"`
		StartDate string `json:"start_date,omitempty" jsonschema:"description=Optional start of the date range"`
		EndDate   string `json:"end_date,omitempty" jsonschema:"description=Optional end of the date range (inclusive)"`
		NResults  int    `json:"n_results,omitempty" jsonschema:"minimum=1,maximum=20,default=10,description=Maximum results per memory type"`
	}

	addTextMemoryArgs struct {
		Text        string `json:"text" jsonschema:"required,description=The text content of the memory"`
		Title       string `json:"title,omitempty" jsonschema:"description=Optional title for the memory"`
		Tags        string `json:"tags,omitempty" jsonschema:"description=Optional comma-separated tags (e.g. 'travel, japan, 2024')"`
		Description string `json:"description,omitempty" jsonschema:"description=Optional description or context about the memory"`
	}

	statsArgs struct{}

	listRecentArgs struct {
		Limit      int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of memories to return"`
		MemoryType string `json:"memory_type,omitempty" jsonschema:"enum=text,enum=image,enum=all,default=all,description=Filter by memory type"`
	}
)

// argsSchema reflects a tool argument struct into an inline JSON schema
// suitable for an MCP tool definition.
func argsSchema(v any) json.RawMessage {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	schema := reflector.Reflect(v)
	schema.Version = ""

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return raw
}
