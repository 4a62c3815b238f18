package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestPath creates a validator rooted at a fresh temp directory.
// The temp dir is symlink-resolved up front (macOS /var -> /private/var).
func newTestPath(t *testing.T) (*Path, string) {
	t.Helper()

	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() unexpected error: %v", err)
	}

	p, err := NewPath(tmpDir)
	if err != nil {
		t.Fatalf("NewPath(%q) unexpected error: %v", tmpDir, err)
	}
	return p, tmpDir
}

func TestNewPath(t *testing.T) {
	t.Parallel()

	t.Run("empty base", func(t *testing.T) {
		t.Parallel()
		if _, err := NewPath(""); err == nil {
			t.Error("NewPath(\"\") expected error, got nil")
		}
	})

	t.Run("missing base", func(t *testing.T) {
		t.Parallel()
		if _, err := NewPath("/nonexistent/ferret/base"); err == nil {
			t.Error("NewPath() expected error for missing directory, got nil")
		}
	})

	t.Run("base is a file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "base.txt")
		if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
			t.Fatalf("WriteFile() unexpected error: %v", err)
		}
		if _, err := NewPath(file); err == nil {
			t.Error("NewPath() expected error for file base, got nil")
		}
	})

	t.Run("base symlinks are resolved", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		realBase := filepath.Join(tmpDir, "real")
		if err := os.Mkdir(realBase, 0o750); err != nil {
			t.Fatalf("Mkdir() unexpected error: %v", err)
		}
		link := filepath.Join(tmpDir, "link")
		if err := os.Symlink(realBase, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		p, err := NewPath(link)
		if err != nil {
			t.Fatalf("NewPath(%q) unexpected error: %v", link, err)
		}
		resolved, err := filepath.EvalSymlinks(realBase)
		if err != nil {
			t.Fatalf("EvalSymlinks() unexpected error: %v", err)
		}
		if p.Base() != resolved {
			t.Errorf("Base() = %q, want %q", p.Base(), resolved)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	tests := []struct {
		name   string
		path   string
		want   string // relative to base; ignored when wantErr
		reason string
	}{
		{
			name:   "relative path",
			path:   "notes.txt",
			want:   "notes.txt",
			reason: "relative paths join onto the base directory",
		},
		{
			name:   "nested relative path",
			path:   "a/b/c.txt",
			want:   "a/b/c.txt",
			reason: "subdirectory paths are contained",
		},
		{
			name:   "dot",
			path:   ".",
			want:   ".",
			reason: "the base directory itself is contained",
		},
		{
			name:   "empty means base",
			path:   "",
			want:   ".",
			reason: "empty input defaults to the base directory",
		},
		{
			name:   "absolute path inside base",
			path:   filepath.Join(base, "inside.txt"),
			want:   "inside.txt",
			reason: "absolute paths under the base are contained",
		},
		{
			name:   "internal dot-dot that stays inside",
			path:   "a/../b.txt",
			want:   "b.txt",
			reason: "lexical normalization keeps contained paths contained",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := p.Validate(tt.path)
			if err != nil {
				t.Fatalf("Validate(%q) unexpected error: %v (%s)", tt.path, err, tt.reason)
			}
			want := filepath.Join(base, tt.want)
			if got != want {
				t.Errorf("Validate(%q) = %q, want %q", tt.path, got, want)
			}
		})
	}
}

func TestValidate_Denied(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	tests := []struct {
		name   string
		path   string
		reason string
	}{
		{
			name:   "dot-dot traversal",
			path:   "../../etc/passwd",
			reason: "traversal above the base must be blocked",
		},
		{
			name:   "absolute path outside base",
			path:   "/etc/passwd",
			reason: "absolute paths outside the base must be blocked",
		},
		{
			name:   "parent of base",
			path:   "..",
			reason: "the base's parent is outside the sandbox",
		},
		{
			name:   "sibling directory sharing base prefix",
			path:   base + "2/secret.txt",
			reason: "string-prefix siblings like /data2 for base /data must be blocked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := p.Validate(tt.path)
			if err == nil {
				t.Fatalf("Validate(%q) expected error: %s", tt.path, tt.reason)
			}
			if !errors.Is(err, ErrAccessDenied) {
				t.Errorf("Validate(%q) error = %v, want ErrAccessDenied", tt.path, err)
			}
		})
	}
}

func TestValidate_ErrorNamesPathAndBase(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	_, err := p.Validate("/etc/passwd")
	if err == nil {
		t.Fatal("Validate(\"/etc/passwd\") expected error, got nil")
	}
	if !strings.Contains(err.Error(), "/etc/passwd") {
		t.Errorf("error should name the violating path, got: %v", err)
	}
	if !strings.Contains(err.Error(), base) {
		t.Errorf("error should name the base directory, got: %v", err)
	}
}

func TestValidate_NonexistentTarget(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	// A contained path that does not exist passes validation on its lexical
	// form; tools report not-found themselves.
	got, err := p.Validate("missing/file.txt")
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if want := filepath.Join(base, "missing/file.txt"); got != want {
		t.Errorf("Validate() = %q, want %q", got, want)
	}
}

func TestValidate_SymlinkInsideBase(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	target := filepath.Join(base, "target.txt")
	if err := os.WriteFile(target, []byte("data"), 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	link := filepath.Join(base, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	got, err := p.Validate(link)
	if err != nil {
		t.Fatalf("Validate(%q) unexpected error: %v", link, err)
	}
	if got != target {
		t.Errorf("Validate(%q) = %q, want resolved target %q", link, got, target)
	}
}

func TestValidate_SymlinkEscape(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("secret"), 0o600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	link := filepath.Join(base, "escape.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if _, err := p.Validate(link); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Validate(%q) error = %v, want ErrAccessDenied for symlink escape", link, err)
	}
}

func TestRel(t *testing.T) {
	t.Parallel()

	p, base := newTestPath(t)

	if got := p.Rel(filepath.Join(base, "a", "b.txt")); got != filepath.Join("a", "b.txt") {
		t.Errorf("Rel() = %q, want %q", got, filepath.Join("a", "b.txt"))
	}
	if got := p.Rel(base); got != "." {
		t.Errorf("Rel(base) = %q, want %q", got, ".")
	}
}
