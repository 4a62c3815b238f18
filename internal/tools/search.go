package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// SearchFilesInput defines input for the search_files tool.
// Recursive defaults to true when omitted.
type SearchFilesInput struct {
	Pattern      string `json:"pattern" jsonschema:"Glob pattern to match file names, e.g. *.txt"`
	SearchPath   string `json:"search_path,omitempty" jsonschema:"Directory to search under, relative to the base directory (default .)"`
	Recursive    *bool  `json:"recursive,omitempty" jsonschema:"Match the pattern in subdirectories at any depth (default true)"`
	ContentRegex string `json:"content_regex,omitempty" jsonschema:"Optional regex; only files with at least one matching line are returned, with per-line matches"`
}

// Match is one matching line of a content search.
type Match struct {
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
}

// SearchResult describes one file matched by a search. Matches is present
// only when a content regex was supplied.
type SearchResult struct {
	Path    string  `json:"path"`
	Size    int64   `json:"size"`
	Matches []Match `json:"matches,omitempty"`
}

// SearchFiles matches files under a directory by glob pattern, optionally
// filtered by a per-line content regex.
//
// Without a content regex every glob-matched regular file is returned. With
// one, a file contributes a result only if at least one line matches; files
// with zero matching lines are excluded entirely. Files that cannot be read
// or decoded during a content search are skipped with a warning, never
// fatal. Invalid glob or regex syntax fails the whole call before any file
// is scanned.
func (f *File) SearchFiles(_ context.Context, input SearchFilesInput) (Result, error) {
	f.logger.Info("search_files called",
		"pattern", input.Pattern,
		"search_path", input.SearchPath,
		"content_regex", input.ContentRegex)

	searchPath := input.SearchPath
	if searchPath == "" {
		searchPath = "."
	}

	safePath, err := f.pathVal.Validate(searchPath)
	if err != nil {
		return failure(ErrCodeSecurity, "path validation failed: %v", err), nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, "search path does not exist: %s", searchPath), nil
		}
		return failure(ErrCodeIO, "unable to stat search path: %v", err), nil
	}
	if !info.IsDir() {
		return failure(ErrCodeNotFound, "search path is not a directory: %s", searchPath), nil
	}

	if input.Pattern == "" {
		return failure(ErrCodeValidation, "pattern is required"), nil
	}

	pattern := input.Pattern
	if input.Recursive == nil || *input.Recursive {
		// ** matches zero or more directories, so direct children match too.
		pattern = "**/" + pattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return failure(ErrCodeValidation, "invalid glob pattern: %s", input.Pattern), nil
	}

	// Compile before scanning so bad regex syntax fails the whole call.
	var contentRe *regexp.Regexp
	if input.ContentRegex != "" {
		contentRe, err = regexp.Compile(input.ContentRegex)
		if err != nil {
			return failure(ErrCodeValidation, "invalid content regex: %v", err), nil
		}
	}

	matches, err := doublestar.Glob(os.DirFS(safePath), pattern)
	if err != nil {
		return failure(ErrCodeValidation, "invalid glob pattern: %v", err), nil
	}

	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		full := filepath.Join(safePath, filepath.FromSlash(match))

		// Lstat so symlinks are not followed; only regular files are kept.
		fileInfo, err := os.Lstat(full)
		if err != nil {
			f.logger.Warn("skipping unreadable match", "path", match, "error", err)
			continue
		}
		if !fileInfo.Mode().IsRegular() {
			continue
		}

		result := SearchResult{
			Path: f.pathVal.Rel(full),
			Size: fileInfo.Size(),
		}

		if contentRe != nil {
			lineMatches, ok := f.scanContent(full, fileInfo.Size(), contentRe)
			if !ok || len(lineMatches) == 0 {
				continue
			}
			result.Matches = lineMatches
		}

		results = append(results, result)
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("found %d matching files for %s", len(results), input.Pattern),
		Data:    results,
	}, nil
}

// scanContent reads one file and collects its regex-matching lines.
// Returns ok=false when the file should be skipped (too large, unreadable,
// or not text); skips are logged, never fatal to the search.
func (f *File) scanContent(path string, size int64, re *regexp.Regexp) ([]Match, bool) {
	if size > f.maxReadSize {
		f.logger.Warn("skipping oversized file in content search",
			"path", path, "size", size, "limit", f.maxReadSize)
		return nil, false
	}

	data, err := os.ReadFile(path) // #nosec G304 - under the validated search path
	if err != nil {
		f.logger.Warn("skipping unreadable file in content search", "path", path, "error", err)
		return nil, false
	}
	if !utf8.Valid(data) {
		f.logger.Warn("skipping non-text file in content search", "path", path)
		return nil, false
	}

	var matches []Match
	for i, line := range splitLines(string(data)) {
		if re.MatchString(line) {
			matches = append(matches, Match{
				LineNumber: i + 1,
				Content:    strings.TrimSpace(line),
			})
		}
	}
	return matches, true
}

// splitLines splits content into physical lines, handling both \n and \r\n
// endings. A trailing newline does not produce a phantom empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
