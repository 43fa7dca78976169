// Package mcpserver exposes the shared session store to AI coding agents
// over MCP stdio.
package mcpserver

import (
	stdctx "context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/agentshare/agentshare/internal/context"
)

const serverInstructions = `agentshare shares session context across AI coding agents.
Call list_sessions or query_context at session start to pick up prior work,
and write_session when significant work completes.`

// summaryPreviewLen caps summaries in list_sessions responses; get_session
// returns the full text.
const summaryPreviewLen = 200

// Server wraps the MCP server and the session store behind its tools.
type Server struct {
	mcp   *server.MCPServer
	store *context.Store
}

// New builds the MCP server with the four context-sharing tools registered.
func New(store *context.Store, version string) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"agentshare",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	s.mcp.AddTool(mcp.NewTool("write_session",
		mcp.WithDescription("Store a session summary for cross-agent context sharing. Call this at the end of a coding session or when switching contexts to preserve knowledge for future sessions across any AI agent."),
		mcp.WithString("agent_source", mcp.Required(), mcp.Description("Which agent is writing (e.g. \"claude-code\", \"cursor\", \"windsurf\")")),
		mcp.WithString("project_path", mcp.Required(), mcp.Description("Absolute path to the project being worked on")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title summarizing what was done (e.g. \"Added user auth with JWT\")")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Detailed summary of changes, decisions, and context")),
		mcp.WithArray("tags", mcp.Description("Optional tags for categorization (e.g. [\"auth\", \"backend\"])"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("key_decisions", mcp.Description("Important decisions made during the session"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithArray("files_modified", mcp.Description("List of files that were changed"), mcp.Items(map[string]any{"type": "string"})),
	), s.handleWriteSession)

	s.mcp.AddTool(mcp.NewTool("query_context",
		mcp.WithDescription("Search past session summaries across all AI agents using full-text search over titles and summaries. Call this when starting work on a project to understand what was done previously."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text to find relevant sessions")),
		mcp.WithString("project_path", mcp.Description("Filter to a specific project")),
		mcp.WithString("agent_source", mcp.Description("Filter to a specific agent")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 10)")),
	), s.handleQueryContext)

	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("Browse recent session summaries across all AI agents, newest first, optionally filtered by project path."),
		mcp.WithString("project_path", mcp.Description("Filter to a specific project")),
		mcp.WithNumber("limit", mcp.Description("Maximum results to return (default 20)")),
	), s.handleListSessions)

	s.mcp.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full details of one session by ID."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The session ID")),
	), s.handleGetSession)

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	return errors.Wrap(server.ServeStdio(s.mcp), "mcp server failed")
}

func (s *Server) handleWriteSession(ctx stdctx.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentSource, err := request.RequireString("agent_source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	projectPath, err := request.RequireString("project_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := request.RequireString("summary")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sess := context.NewSession(agentSource, projectPath, title, summary)
	sess.Tags = request.GetStringSlice("tags", nil)
	sess.KeyDecisions = request.GetStringSlice("key_decisions", nil)
	sess.FilesModified = request.GetStringSlice("files_modified", nil)

	if err := s.store.Write(ctx, sess); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"id": sess.ID, "status": "saved", "title": sess.Title})
}

func (s *Server) handleQueryContext(ctx stdctx.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessions, err := s.store.Query(ctx,
		query,
		request.GetString("project_path", ""),
		request.GetString("agent_source", ""),
		request.GetInt("limit", 10))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, map[string]any{
			"id":             sess.ID,
			"agent_source":   sess.AgentSource,
			"project_path":   sess.ProjectPath,
			"title":          sess.Title,
			"summary":        sess.Summary,
			"tags":           sess.Tags,
			"key_decisions":  sess.KeyDecisions,
			"files_modified": sess.FilesModified,
			"created_at":     sess.CreatedAt,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleListSessions(ctx stdctx.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.store.List(ctx,
		request.GetString("project_path", ""),
		request.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, map[string]any{
			"id":           sess.ID,
			"agent_source": sess.AgentSource,
			"project_path": sess.ProjectPath,
			"title":        sess.Title,
			"summary":      previewSummary(sess.Summary),
			"tags":         sess.Tags,
			"created_at":   sess.CreatedAt,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetSession(ctx stdctx.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(sess)
}

// previewSummary truncates long summaries for list responses.
func previewSummary(s string) string {
	runes := []rune(s)
	if len(runes) <= summaryPreviewLen {
		return s
	}
	return string(runes[:summaryPreviewLen]) + "..."
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(errors.Wrap(err, "failed to encode result").Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
