package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/timmy/arbitrage/internal/domain"
)

// MaxManifestBytes caps how much of a manifest is read into memory.
const MaxManifestBytes = 32 << 20

// File reads a manifest from a CSV file on disk.
type File struct {
	path        string
	displayName string
}

// NewFile creates a file source.
// Parameters:
//   - path: path to the CSV file.
//   - displayName: optional upload name shown in history.
// Returns:
//   - *File: initialized file source.
func NewFile(path, displayName string) *File {
	return &File{path: filepath.Clean(path), displayName: displayName}
}

func (f *File) GetSourceID() string { return "file:" + filepath.Base(f.path) }

func (f *File) GetDisplayName() string { return filepath.Base(f.path) }

// Read loads the file. The manifest filename is the file's base name.
func (f *File) Read(ctx context.Context) (domain.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return domain.Manifest{}, err
	}
	if err := validatePath(f.path); err != nil {
		return domain.Manifest{}, err
	}

	// #nosec G304 - path is validated above
	fh, err := os.Open(f.path)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer fh.Close()

	content, err := readLimited(fh)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return domain.Manifest{
		Content:     content,
		Filename:    filepath.Base(f.path),
		DisplayName: strings.TrimSpace(f.displayName),
	}, nil
}

// Text reads a manifest pasted as raw text, e.g. from stdin.
type Text struct {
	r           io.Reader
	displayName string
}

// NewText creates a pasted-text source.
func NewText(r io.Reader, displayName string) *Text {
	return &Text{r: r, displayName: displayName}
}

func (t *Text) GetSourceID() string { return "text:" + domain.PastedFilename }

func (t *Text) GetDisplayName() string { return "Pasted data" }

// Read consumes the reader. Pasted manifests always use the pasted-data filename.
func (t *Text) Read(ctx context.Context) (domain.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return domain.Manifest{}, err
	}
	content, err := readLimited(t.r)
	if err != nil {
		return domain.Manifest{}, fmt.Errorf("failed to read pasted data: %w", err)
	}
	return domain.Manifest{
		Content:     content,
		Filename:    domain.PastedFilename,
		DisplayName: strings.TrimSpace(t.displayName),
	}, nil
}

func readLimited(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxManifestBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > MaxManifestBytes {
		return "", fmt.Errorf("manifest exceeds %d bytes", MaxManifestBytes)
	}
	return string(b), nil
}

// validatePath checks that path names an existing regular file.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" || path == "." {
		return fmt.Errorf("empty file path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a manifest file", path)
	}
	return nil
}
