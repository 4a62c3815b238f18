package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ferretfs/ferret/internal/tools"
)

// registerFileTools registers the filesystem tools:
// read_file, list_directory, search_files, get_file_info.
func (s *Server) registerFileTools() error {
	readSchema, err := jsonschema.For[tools.ReadFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for read_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "read_file",
		Description: "Read the complete content of a text file inside the base directory.",
		InputSchema: readSchema,
	}, s.handleReadFile)

	listSchema, err := jsonschema.For[tools.ListDirectoryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_directory: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_directory",
		Description: "List the immediate children of a directory, sorted by name. Hidden entries are skipped unless include_hidden is set.",
		InputSchema: listSchema,
	}, s.handleListDirectory)

	searchSchema, err := jsonschema.For[tools.SearchFilesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for search_files: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_files",
		Description: "Find files by glob pattern, optionally filtered by a per-line content regex with line-number matches.",
		InputSchema: searchSchema,
	}, s.handleSearchFiles)

	infoSchema, err := jsonschema.For[tools.GetFileInfoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_file_info: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_file_info",
		Description: "Get metadata (size, type, modification time, permissions) for a file or directory.",
		InputSchema: infoSchema,
	}, s.handleGetFileInfo)

	return nil
}

// handleReadFile returns the file content as plain text rather than JSON,
// so clients receive the bytes they asked for unwrapped.
func (s *Server) handleReadFile(ctx context.Context, req *mcp.CallToolRequest, input tools.ReadFileInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.ReadFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("read_file failed: %w", err)
	}
	if result.Status == tools.StatusError {
		return errorToMCP(result), nil, nil
	}

	data, ok := result.Data.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("unexpected read_file data format %T", result.Data)
	}
	content, ok := data["content"].(string)
	if !ok {
		return nil, nil, fmt.Errorf("read_file result has no content field")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: content}},
	}, nil, nil
}

func (s *Server) handleListDirectory(ctx context.Context, req *mcp.CallToolRequest, input tools.ListDirectoryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.ListDirectory(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("list_directory failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) handleSearchFiles(ctx context.Context, req *mcp.CallToolRequest, input tools.SearchFilesInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.SearchFiles(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("search_files failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) handleGetFileInfo(ctx context.Context, req *mcp.CallToolRequest, input tools.GetFileInfoInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.GetFileInfo(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("get_file_info failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}
