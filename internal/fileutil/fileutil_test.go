package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "exists.md")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists() = false for regular file")
	}
	if FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
	if FileExists(filepath.Join(dir, "missing.md")) {
		t.Error("FileExists() = true for missing path")
	}
}

func TestIsMarkdownFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"doc.md", true},
		{"doc.markdown", true},
		{"DOC.MD", true},
		{"doc.txt", false},
		{"doc", false},
		{"doc.md.bak", false},
	}
	for _, tt := range tests {
		if got := IsMarkdownFile(tt.path); got != tt.want {
			t.Errorf("IsMarkdownFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidateSuffix(t *testing.T) {
	t.Parallel()

	if err := ValidateSuffix("_fixed"); err != nil {
		t.Errorf("ValidateSuffix(_fixed) error = %v", err)
	}
	if err := ValidateSuffix(""); !errors.Is(err, ErrSuffixEmpty) {
		t.Errorf("empty suffix error = %v, want ErrSuffixEmpty", err)
	}
	for _, bad := range []string{"a/b", `a\b`, "a\x00b"} {
		if err := ValidateSuffix(bad); !errors.Is(err, ErrSuffixPathTraversal) {
			t.Errorf("ValidateSuffix(%q) error = %v, want ErrSuffixPathTraversal", bad, err)
		}
	}
}

func TestDeriveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		suffix string
		want   string
	}{
		{"doc.md", "_fixed", "doc_fixed.md"},
		{filepath.Join("notes", "doc.md"), "_fixed", filepath.Join("notes", "doc_fixed.md")},
		{"doc.markdown", "_clean", "doc_clean.markdown"},
		{"noext", "_fixed", "noext_fixed"},
	}
	for _, tt := range tests {
		if got := DeriveOutputPath(tt.input, tt.suffix); got != tt.want {
			t.Errorf("DeriveOutputPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.md")
		if err := WriteFileAtomic(path, []byte("hello\n"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "hello\n" {
			t.Errorf("content = %q, want %q", data, "hello\n")
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.md")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "new" {
			t.Errorf("content = %q, want %q", data, "new")
		}
	})

	t.Run("missing directory leaves nothing behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "missing", "out.md")
		if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
			t.Fatal("WriteFileAtomic() succeeded into missing directory")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("leftover entries: %v", entries)
		}
	})

	t.Run("no temp file remains on success", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.md")
		if err := WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("directory entries = %d, want 1", len(entries))
		}
	})
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	if !SamePath("doc.md", "./doc.md") {
		t.Error("SamePath() = false for equivalent relative paths")
	}
	if SamePath("a.md", "b.md") {
		t.Error("SamePath() = true for distinct paths")
	}
	abs, err := filepath.Abs("doc.md")
	if err != nil {
		t.Fatal(err)
	}
	if !SamePath("doc.md", abs) {
		t.Error("SamePath() = false for relative vs absolute of same file")
	}
}
