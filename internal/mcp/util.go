package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ferretfs/ferret/internal/log"
	"github.com/ferretfs/ferret/internal/tools"
)

// resultToMCP converts a tools.Result to an MCP call result: business
// failures become IsError results, success data is serialized as JSON.
func resultToMCP(result tools.Result, logger log.Logger) *mcp.CallToolResult {
	if result.Status == tools.StatusError {
		return errorToMCP(result)
	}
	return dataToMCP(result.Data, logger)
}

// errorToMCP renders a business failure as "[Code] message" with the
// IsError flag set. Only the structured code and message are exposed;
// anything else stays in the server logs.
func errorToMCP(result tools.Result) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message),
		}},
		IsError: true,
	}
}

// dataToMCP converts arbitrary data to MCP text content via JSON marshaling.
// All data becomes JSON; clients parse it.
func dataToMCP(data any, logger log.Logger) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		logger.Warn("marshaling tool result", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "internal error: result not serializable"}},
			IsError: true,
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}
