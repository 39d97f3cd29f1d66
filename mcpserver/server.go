package mcpserver

import (
	"context"
	"log/slog"

	"github.com/habiliai/memorymap/memory"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	serverName    = "memorymap"
	serverVersion = "0.1.0"
)

// Server exposes the memory service as MCP tools over stdio, so agents
// like Claude can save and recall memories.
type Server struct {
	mcpServer *server.MCPServer
	service   memory.Service
	formatter *Formatter
	logger    *slog.Logger
}

func NewServer(logger *slog.Logger, service memory.Service) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		service:   service,
		formatter: NewFormatter(),
		logger:    logger,
	}
	s.registerTools()
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout until the client
// disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio", "name", serverName)
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"search_memories",
		"Search through both text and image memories using natural language. "+
			"Returns relevant memories ranked by semantic similarity. "+
			"Use this to find memories related to a specific topic, event, or concept.",
		argsSchema(&searchMemoriesArgs{}),
	), s.handleSearchMemories)

	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"search_memories_by_date",
		"Search memories within a date range. Dates in memory content and "+
			"metadata are understood, so 'March 2024' queries work across both "+
			"text notes and photos.",
		argsSchema(&searchByDateArgs{}),
	), s.handleSearchByDate)

	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"synthesize_memories",
		"Retrieve text and image memories about a topic and assemble them "+
			"into a chronological timeline, optionally restricted to a date "+
			"range. Use this to build a narrative of a trip, project, or period.",
		argsSchema(&synthesizeArgs{}),
	), s.handleSynthesize)

	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"add_text_memory",
		"Add a new text-based memory to the system. The memory will be "+
			"embedded and made searchable. Optionally include metadata like "+
			"title, tags, and description.",
		argsSchema(&addTextMemoryArgs{}),
	), s.handleAddTextMemory)

	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"get_memory_stats",
		"Get statistics about stored memories including total counts and breakdowns by type.",
		argsSchema(&statsArgs{}),
	), s.handleStats)

	s.mcpServer.AddTool(mcp.NewToolWithRawSchema(
		"list_recent_memories",
		"List recently added memories. Returns both text and image memories in chronological order.",
		argsSchema(&listRecentArgs{}),
	), s.handleListRecent)
}

func (s *Server) handleSearchMemories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchMemoriesArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	if args.NResults == 0 {
		args.NResults = 5
	}

	result, err := s.service.SearchMemories(ctx, args.Query, args.NResults)
	if err != nil {
		s.logger.Error("search_memories failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatter.FormatSearchResults(result, "all")), nil
}

func (s *Server) handleSearchByDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchByDateArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	if args.NResults == 0 {
		args.NResults = 5
	}

	result, err := s.service.SearchByDate(ctx, args.Query, args.StartDate, args.EndDate, args.NResults)
	if err != nil {
		s.logger.Error("search_memories_by_date failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatter.FormatDateSearch(result, args.StartDate, args.EndDate)), nil
}

func (s *Server) handleSynthesize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args synthesizeArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	if args.NResults == 0 {
		args.NResults = 10
	}

	result, err := s.service.Synthesize(ctx, args.Query, args.StartDate, args.EndDate, args.NResults)
	if err != nil {
		s.logger.Error("synthesize_memories failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatter.FormatSynthesis(result)), nil
}

func (s *Server) handleAddTextMemory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addTextMemoryArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	metadata := map[string]any{}
	if args.Title != "" {
		metadata["title"] = args.Title
	}
	if args.Tags != "" {
		metadata["tags"] = args.Tags
	}
	if args.Description != "" {
		metadata["description"] = args.Description
	}

	id, err := s.service.AddTextMemory(ctx, args.Text, metadata)
	if err != nil {
		s.logger.Error("add_text_memory failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Memory saved with ID: " + id), nil
}

func (s *Server) handleStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.service.Stats(ctx)
	if err != nil {
		s.logger.Error("get_memory_stats failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatter.FormatStats(stats)), nil
}

func (s *Server) handleListRecent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args listRecentArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Limit == 0 {
		args.Limit = 10
	}
	if args.MemoryType == "" {
		args.MemoryType = "all"
	}

	records, err := s.service.ListRecent(ctx, args.MemoryType, args.Limit)
	if err != nil {
		s.logger.Error("list_recent_memories failed", "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatter.FormatRecentMemories(records, args.MemoryType)), nil
}

func decodeArgs(request mcp.CallToolRequest, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to build argument decoder")
	}
	if err := decoder.Decode(request.GetArguments()); err != nil {
		return errors.Wrapf(err, "invalid tool arguments")
	}
	return nil
}
