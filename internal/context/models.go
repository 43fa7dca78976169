// Package context stores session summaries that AI coding agents share with
// each other through the agentshare MCP server.
package context

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is one agent's summary of a unit of work on a project.
type Session struct {
	ID            string         `json:"id"`
	AgentSource   string         `json:"agent_source"`
	ProjectPath   string         `json:"project_path"`
	Title         string         `json:"title"`
	Summary       string         `json:"summary"`
	Tags          []string       `json:"tags"`
	KeyDecisions  []string       `json:"key_decisions"`
	FilesModified []string       `json:"files_modified"`
	CreatedAt     time.Time      `json:"created_at"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewSession builds a session with a fresh ID and the current UTC time.
func NewSession(agentSource, projectPath, title, summary string) *Session {
	return &Session{
		ID:          NewSessionID(),
		AgentSource: agentSource,
		ProjectPath: projectPath,
		Title:       title,
		Summary:     summary,
		CreatedAt:   time.Now().UTC(),
	}
}

// NewSessionID returns a short random session identifier.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
