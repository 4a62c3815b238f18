package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ferretfs/ferret/internal/log"
	"github.com/ferretfs/ferret/internal/security"
)

// Entry type constants for ListDirectory results.
const (
	entryTypeFile      = "file"
	entryTypeDirectory = "directory"
)

// ReadFileInput defines input for the read_file tool.
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"The file path to read, absolute or relative to the base directory"`
}

// ListDirectoryInput defines input for the list_directory tool.
type ListDirectoryInput struct {
	Path          string `json:"path" jsonschema:"The directory path to list"`
	IncludeHidden bool   `json:"include_hidden,omitempty" jsonschema:"Include entries whose names start with a dot (default false)"`
}

// GetFileInfoInput defines input for the get_file_info tool.
type GetFileInfoInput struct {
	Path string `json:"path" jsonschema:"The file path to get metadata for"`
}

// Entry describes one immediate child of a listed directory.
// Size is populated for files only and omitted for directories.
type Entry struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     *int64 `json:"size,omitempty"`
	IsHidden bool   `json:"is_hidden"`
}

// File provides the sandboxed filesystem operations. Every method
// validates its path argument through the path validator first.
type File struct {
	pathVal     *security.Path
	maxReadSize int64
	logger      log.Logger
}

// NewFile creates the filesystem toolset. maxReadSize caps how many bytes
// ReadFile and content search load per file.
func NewFile(pathVal *security.Path, maxReadSize int64, logger log.Logger) (*File, error) {
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if maxReadSize < 1 {
		return nil, fmt.Errorf("max read size must be positive, got %d", maxReadSize)
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &File{
		pathVal:     pathVal,
		maxReadSize: maxReadSize,
		logger:      logger,
	}, nil
}

// ReadFile reads the complete content of a text file.
// The content is returned in Data under "content" as a UTF-8 string; files
// larger than the read cap fail with ErrCodeResourceLimit instead of being
// loaded into memory.
func (f *File) ReadFile(_ context.Context, input ReadFileInput) (Result, error) {
	f.logger.Info("read_file called", "path", input.Path)

	safePath, err := f.pathVal.Validate(input.Path)
	if err != nil {
		return failure(ErrCodeSecurity, "path validation failed: %v", err), nil
	}

	file, err := os.Open(safePath) // #nosec G304 - path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, "file does not exist: %s", input.Path), nil
		}
		return failure(ErrCodeIO, "unable to open file: %v", err), nil
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return failure(ErrCodeIO, "unable to stat file: %v", err), nil
	}
	if !info.Mode().IsRegular() {
		return failure(ErrCodeNotFound, "not a regular file: %s", input.Path), nil
	}
	if info.Size() > f.maxReadSize {
		return failure(ErrCodeResourceLimit,
			"file size %d exceeds the %d byte read limit: %s", info.Size(), f.maxReadSize, input.Path), nil
	}

	// LimitReader as defense-in-depth against the file growing under us.
	content, err := io.ReadAll(io.LimitReader(file, f.maxReadSize))
	if err != nil {
		return failure(ErrCodeIO, "unable to read file: %v", err), nil
	}
	if !utf8.Valid(content) {
		return failure(ErrCodeIO, "file is not valid UTF-8 text: %s", input.Path), nil
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("read %d bytes from %s", len(content), f.pathVal.Rel(safePath)),
		Data: map[string]any{
			"path":    f.pathVal.Rel(safePath),
			"content": string(content),
			"size":    len(content),
		},
	}, nil
}

// ListDirectory enumerates the immediate children of a directory, sorted by
// name. Entries whose names start with a dot are skipped unless
// include_hidden is set.
func (f *File) ListDirectory(_ context.Context, input ListDirectoryInput) (Result, error) {
	f.logger.Info("list_directory called", "path", input.Path, "include_hidden", input.IncludeHidden)

	safePath, err := f.pathVal.Validate(input.Path)
	if err != nil {
		return failure(ErrCodeSecurity, "path validation failed: %v", err), nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, "directory does not exist: %s", input.Path), nil
		}
		return failure(ErrCodeIO, "unable to stat directory: %v", err), nil
	}
	if !info.IsDir() {
		return failure(ErrCodeNotFound, "not a directory: %s", input.Path), nil
	}

	// os.ReadDir returns entries sorted by name, giving deterministic output.
	children, err := os.ReadDir(safePath)
	if err != nil {
		return failure(ErrCodeIO, "unable to read directory: %v", err), nil
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		hidden := strings.HasPrefix(child.Name(), ".")
		if hidden && !input.IncludeHidden {
			continue
		}

		entry := Entry{
			Name:     child.Name(),
			Type:     entryTypeFile,
			IsHidden: hidden,
		}
		if child.IsDir() {
			entry.Type = entryTypeDirectory
		} else {
			childInfo, err := child.Info()
			if err != nil {
				// Entry vanished between ReadDir and Info.
				f.logger.Warn("skipping unreadable entry", "name", child.Name(), "error", err)
				continue
			}
			size := childInfo.Size()
			entry.Size = &size
		}
		entries = append(entries, entry)
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("listed %d entries in %s", len(entries), f.pathVal.Rel(safePath)),
		Data:    entries,
	}, nil
}

// GetFileInfo returns metadata about a file or directory.
func (f *File) GetFileInfo(_ context.Context, input GetFileInfoInput) (Result, error) {
	f.logger.Info("get_file_info called", "path", input.Path)

	safePath, err := f.pathVal.Validate(input.Path)
	if err != nil {
		return failure(ErrCodeSecurity, "path validation failed: %v", err), nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, "path does not exist: %s", input.Path), nil
		}
		return failure(ErrCodeIO, "unable to stat path: %v", err), nil
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("retrieved info for %s", f.pathVal.Rel(safePath)),
		Data: map[string]any{
			"name":        info.Name(),
			"size":        info.Size(),
			"is_dir":      info.IsDir(),
			"modified":    info.ModTime().Format("2006-01-02 15:04:05"),
			"permissions": info.Mode().String(),
		},
	}, nil
}
