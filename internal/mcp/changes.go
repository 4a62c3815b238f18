package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChangesResourceURI is the resource address of the recent-changes ring.
const ChangesResourceURI = "file-changes://recent"

// RecentChangesInput is the (empty) input of the get_recent_changes tool.
type RecentChangesInput struct{}

// registerChanges registers the change-notification surface: the
// get_recent_changes tool and the file-changes://recent resource. Only
// called when a watcher is configured.
func (s *Server) registerChanges() error {
	schema, err := jsonschema.For[RecentChangesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_recent_changes: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_recent_changes",
		Description: "Return the most recent filesystem changes under the base directory, oldest first.",
		InputSchema: schema,
	}, s.handleRecentChanges)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         ChangesResourceURI,
		Name:        "recent-changes",
		Description: "Recent filesystem changes under the base directory, oldest first.",
		MIMEType:    "application/json",
	}, s.handleChangesResource)

	return nil
}

func (s *Server) handleRecentChanges(ctx context.Context, req *mcp.CallToolRequest, input RecentChangesInput) (*mcp.CallToolResult, any, error) {
	// Recent always returns a non-nil snapshot, so an idle ring serializes
	// as an empty JSON array.
	return dataToMCP(s.changes.Recent(), s.logger), nil, nil
}

func (s *Server) handleChangesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	b, err := json.Marshal(s.changes.Recent())
	if err != nil {
		return nil, fmt.Errorf("marshaling change records: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      ChangesResourceURI,
			MIMEType: "application/json",
			Text:     string(b),
		}},
	}, nil
}
