package site

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Plugin hooks into a build.
type Plugin interface {
	// OnFiles runs once after discovery and may exclude files.
	OnFiles(ctx context.Context, files Files) error
	// OnPageMarkdown returns the markdown to write for page.
	OnPageMarkdown(ctx context.Context, page *File, markdown string, files Files) (string, error)
}

// BuildOptions configures Build.
type BuildOptions struct {
	DocsDir  string
	SiteDir  string
	SiteName string
	// Plugin may be nil, in which case pages are rendered without extra
	// template functions.
	Plugin Plugin
	Logger *log.Logger
}

// BuildResult lists what a build did.
type BuildResult struct {
	Files   Files    `json:"-"`
	Written []string `json:"written"`
	Skipped []string `json:"skipped"`
}

// Build discovers, filters, renders and writes the site.
func Build(ctx context.Context, opts BuildOptions) (BuildResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	files, err := Discover(opts.DocsDir)
	if err != nil {
		return BuildResult{}, err
	}
	res := BuildResult{Files: files}

	if opts.Plugin != nil {
		if err := opts.Plugin.OnFiles(ctx, files); err != nil {
			return res, fmt.Errorf("files hook: %w", err)
		}
	}

	if err := os.MkdirAll(opts.SiteDir, 0o755); err != nil {
		return res, fmt.Errorf("creating site directory: %w", err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !f.IsIncluded() {
			logger.Printf("info: skipping excluded file %s", f.SrcURI)
			res.Skipped = append(res.Skipped, f.SrcURI)
			continue
		}
		dst := filepath.Join(opts.SiteDir, filepath.FromSlash(f.SrcURI))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
		}
		if f.IsDocumentation() {
			err = writePage(ctx, opts, f, files, dst)
		} else {
			err = copyFile(f.AbsSrcPath, dst)
		}
		if err != nil {
			return res, err
		}
		res.Written = append(res.Written, f.SrcURI)
	}
	logger.Printf("info: wrote %d files to %s, skipped %d", len(res.Written), opts.SiteDir, len(res.Skipped))
	return res, nil
}

func writePage(ctx context.Context, opts BuildOptions, page *File, files Files, dst string) error {
	src, err := os.ReadFile(page.AbsSrcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", page.SrcURI, err)
	}
	var out string
	if opts.Plugin != nil {
		out, err = opts.Plugin.OnPageMarkdown(ctx, page, string(src), files)
	} else {
		out, err = RenderMarkdown(page.SrcURI, string(src), nil, PageData{SiteName: opts.SiteName, Page: page})
	}
	if err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(out), 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
