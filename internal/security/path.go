package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrAccessDenied indicates a path resolved outside the base directory.
var ErrAccessDenied = errors.New("access denied")

// Path validates candidate paths against a single base directory.
// Used to prevent path traversal attacks (CWE-22).
type Path struct {
	base string // absolute, symlink-resolved
}

// NewPath creates a path validator rooted at baseDir.
// The base is resolved to its real path once, so later containment checks
// compare against a stable, symlink-free root. baseDir must exist and be a
// directory.
func NewPath(baseDir string) (*Path, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", baseDir, err)
	}

	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", abs, err)
	}

	info, err := os.Stat(real)
	if err != nil {
		return nil, fmt.Errorf("base directory %q: %w", real, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base directory %q is not a directory", real)
	}

	return &Path{base: real}, nil
}

// Base returns the absolute base directory all validated paths stay within.
func (p *Path) Base() string {
	return p.base
}

// Validate validates and sanitizes a candidate path.
// Relative candidates are joined onto the base directory, never the process
// working directory. The result is an absolute path guaranteed to lie at or
// under the base, with symlinks resolved when the target exists.
func (p *Path) Validate(candidate string) (string, error) {
	if candidate == "" {
		candidate = "."
	}

	// 1. Anchor at the base and normalize (resolves . and .. lexically).
	abs := candidate
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.base, abs)
	}
	abs = filepath.Clean(abs)

	// 2. Lexical containment check.
	if !p.contains(abs) {
		return "", fmt.Errorf("%w: path %q is outside base directory %q", ErrAccessDenied, abs, p.base)
	}

	// 3. Resolve symlinks and re-check, so a link inside the sandbox cannot
	// point out of it.
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			// Target does not exist yet; the lexical form is contained and
			// tools will report not-found on their own.
			return abs, nil
		}
		return "", fmt.Errorf("resolving %q: %w", abs, err)
	}

	if real != abs && !p.contains(real) {
		return "", fmt.Errorf("%w: path %q resolves to %q outside base directory %q", ErrAccessDenied, abs, real, p.base)
	}

	return real, nil
}

// Rel returns target relative to the base directory, for display in tool
// results. Falls back to the input if it cannot be made relative.
func (p *Path) Rel(target string) string {
	rel, err := filepath.Rel(p.base, target)
	if err != nil {
		return target
	}
	return rel
}

// contains reports whether target lies at or under the base directory.
// The separator is appended before the prefix test so sibling directories
// sharing a name prefix with the base (/data vs /data2) do not pass.
func (p *Path) contains(target string) bool {
	if target == p.base {
		return true
	}
	return strings.HasPrefix(target, p.base+string(filepath.Separator))
}
