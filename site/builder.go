package site

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// Builder generates the documentation tree for a loaded registry.
type Builder struct {
	// DocsDir is the output directory, typically build/docs.
	DocsDir string

	// AssetsDir holds hand-written pages and images copied into the
	// output. AssetsDir/docs/index.md becomes the site root index.
	AssetsDir string

	Logger *slog.Logger
}

// NewBuilder creates a site builder writing to docsDir.
func NewBuilder(docsDir, assetsDir string, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{DocsDir: docsDir, AssetsDir: assetsDir, Logger: logger}
}

// defaultIndex is the root page used when assets provide none.
const defaultIndex = `---
search:
  exclude: true
---

# CAT-MIP Terminology Registry

Welcome to the official registry.
`

// Build regenerates the docs tree from scratch: term pages, status
// index pages, root index, and copied assets.
func (b *Builder) Build(reg *registry.Registry) error {
	if err := os.RemoveAll(b.DocsDir); err != nil {
		return fmt.Errorf("clean docs dir: %w", err)
	}
	for _, status := range registry.Statuses() {
		if err := os.MkdirAll(filepath.Join(b.DocsDir, string(status)), 0755); err != nil {
			return fmt.Errorf("create docs dir: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(b.DocsDir, "images"), 0755); err != nil {
		return fmt.Errorf("create images dir: %w", err)
	}

	linkifier := NewLinkifier(reg)

	for _, term := range reg.Terms {
		if err := b.writeTermPage(term, linkifier); err != nil {
			return err
		}
	}

	for _, status := range registry.Statuses() {
		if err := b.writeIndexPage(status, reg.ByStatus(status)); err != nil {
			return err
		}
	}

	if err := b.writeRootIndex(); err != nil {
		return err
	}
	if err := b.copyAssets(); err != nil {
		return err
	}

	b.Logger.Info("site generated", "terms", len(reg.Terms), "docs", b.DocsDir)
	return nil
}

func (b *Builder) writeTermPage(term *registry.Term, linkifier *Linkifier) error {
	link := func(text string) string {
		return linkifier.Linkify(text, term.Slug, term.Status)
	}

	page := renderTermPage(term, link)
	path := filepath.Join(b.DocsDir, string(term.Status), term.Slug+".md")
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return fmt.Errorf("write term page: %w", err)
	}
	b.Logger.Debug("generated term page", "term", term.Name, "path", path)
	return nil
}

func (b *Builder) writeIndexPage(status registry.Status, terms []*registry.Term) error {
	var sb strings.Builder
	sb.WriteString("---\nsearch:\n  exclude: true\n  boost: 0\n---\n")
	fmt.Fprintf(&sb, "# %s\n\nAll %s terms in the CAT-MIP registry.\n\n", status.Title(), status)

	if len(terms) > 0 {
		sb.WriteString("## Terms\n\n")
		for _, term := range terms {
			id := term.ID
			if id == "" {
				id = DraftID
			}
			fmt.Fprintf(&sb, "- [%s (%s)](%s.md)\n", term.Name, id, term.Slug)
		}
	} else {
		sb.WriteString("_No terms yet._\n")
	}

	path := filepath.Join(b.DocsDir, string(status), "index.md")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write index page: %w", err)
	}
	return nil
}

func (b *Builder) writeRootIndex() error {
	target := filepath.Join(b.DocsDir, "index.md")

	if b.AssetsDir != "" {
		src := filepath.Join(b.AssetsDir, "docs", "index.md")
		if data, err := os.ReadFile(src); err == nil {
			return os.WriteFile(target, data, 0644)
		}
	}
	return os.WriteFile(target, []byte(defaultIndex), 0644)
}

// copyAssets copies everything under assets/docs/ (except index.md,
// already placed) plus the registry logo into the docs tree.
func (b *Builder) copyAssets() error {
	if b.AssetsDir == "" {
		return nil
	}

	extra := filepath.Join(b.AssetsDir, "docs")
	entries, err := os.ReadDir(extra)
	if err == nil {
		for _, entry := range entries {
			if entry.Name() == "index.md" {
				continue
			}
			src := filepath.Join(extra, entry.Name())
			dst := filepath.Join(b.DocsDir, entry.Name())
			if err := copyTree(src, dst); err != nil {
				return fmt.Errorf("copy asset %s: %w", entry.Name(), err)
			}
		}
	}

	logo := filepath.Join(b.AssetsDir, "images", "catmip-150x150.png")
	if _, err := os.Stat(logo); err == nil {
		dst := filepath.Join(b.DocsDir, "images", "catmip-150x150.png")
		if err := copyFile(logo, dst); err != nil {
			return fmt.Errorf("copy logo: %w", err)
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst)
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
