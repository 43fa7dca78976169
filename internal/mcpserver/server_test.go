package mcpserver

import (
	stdctx "context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentshare/agentshare/internal/context"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := context.Open(stdctx.Background(), filepath.Join(t.TempDir(), "context.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, "test")
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func writeSession(t *testing.T, s *Server, args map[string]any) string {
	t.Helper()
	result, err := s.handleWriteSession(stdctx.Background(), callRequest("write_session", args))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "saved", out.Status)
	return out.ID
}

func TestWriteSessionTool(t *testing.T) {
	s := newTestServer(t)

	id := writeSession(t, s, map[string]any{
		"agent_source":   "claude-code",
		"project_path":   "/proj",
		"title":          "Added JWT auth",
		"summary":        "Implemented token issuing.",
		"tags":           []any{"auth"},
		"key_decisions":  []any{"HS256 for now"},
		"files_modified": []any{"auth/jwt.go"},
	})
	assert.Len(t, id, 12)

	sess, err := s.store.Get(stdctx.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Added JWT auth", sess.Title)
	assert.Equal(t, []string{"auth"}, sess.Tags)
}

func TestWriteSessionMissingRequired(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleWriteSession(stdctx.Background(), callRequest("write_session", map[string]any{
		"agent_source": "claude-code",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestQueryContextTool(t *testing.T) {
	s := newTestServer(t)
	writeSession(t, s, map[string]any{
		"agent_source": "claude-code",
		"project_path": "/proj",
		"title":        "JWT authentication",
		"summary":      "Added login middleware",
	})
	writeSession(t, s, map[string]any{
		"agent_source": "cursor",
		"project_path": "/proj",
		"title":        "Redis caching",
		"summary":      "Cached hot queries",
	})

	result, err := s.handleQueryContext(stdctx.Background(), callRequest("query_context", map[string]any{
		"query": "JWT",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "JWT authentication", out[0]["title"])
}

func TestListSessionsTruncatesSummary(t *testing.T) {
	s := newTestServer(t)
	long := strings.Repeat("x", 300)
	writeSession(t, s, map[string]any{
		"agent_source": "claude-code",
		"project_path": "/proj",
		"title":        "long one",
		"summary":      long,
	})

	result, err := s.handleListSessions(stdctx.Background(), callRequest("list_sessions", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out, 1)
	summary := out[0]["summary"].(string)
	assert.Equal(t, strings.Repeat("x", 200)+"...", summary)
}

func TestGetSessionTool(t *testing.T) {
	s := newTestServer(t)
	id := writeSession(t, s, map[string]any{
		"agent_source": "windsurf",
		"project_path": "/proj",
		"title":        "refactor",
		"summary":      "split the parser package",
	})

	result, err := s.handleGetSession(stdctx.Background(), callRequest("get_session", map[string]any{
		"session_id": id,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var sess context.Session
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &sess))
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "split the parser package", sess.Summary)

	result, err = s.handleGetSession(stdctx.Background(), callRequest("get_session", map[string]any{
		"session_id": "missing000000",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
