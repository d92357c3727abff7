package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/gitrange/internal/output"
	"github.com/dshills/gitrange/internal/site"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [from] [to]",
	Short: "List documentation pages changed in a range",
	Long: "List the documentation pages changed between two references. " +
		"Without arguments the configured range is used; one argument replaces the start, two replace both.",
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return fail(err)
		}
		paths, err := s.build.Lister(s.files.Set()).List(cmd.Context(), args...)
		if err != nil {
			return fail(err)
		}
		if err := output.WritePathsTo(paths, cfg.Format, flagOut); err != nil {
			return fail(fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Report which pages a build would keep or exclude",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return fail(err)
		}
		if err := s.build.OnFiles(cmd.Context(), s.files); err != nil {
			return fail(err)
		}
		if err := output.WriteReport(s.build.Report(), cfg.Format, flagOut); err != nil {
			return fail(fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the docs tree into the site directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return fail(err)
		}
		res, err := site.Build(cmd.Context(), site.BuildOptions{
			DocsDir:  cfg.DocsPath(),
			SiteDir:  cfg.SitePath(),
			SiteName: cfg.SiteName,
			Plugin:   s.build,
			Logger:   s.logger,
		})
		if err != nil {
			return fail(fmt.Errorf("building site: %w", err))
		}
		fmt.Fprintf(os.Stderr, "Built %d files into %s (%d skipped)\n", len(res.Written), cfg.SitePath(), len(res.Skipped))
		if err := output.WriteReport(s.build.Report(), cfg.Format, flagOut); err != nil {
			return fail(fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <page>",
	Short: "Render one page's markdown to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := newSession(cmd.Context(), cfg)
		if err != nil {
			return fail(err)
		}
		page := s.files.Get(args[0])
		if page == nil || !page.IsDocumentation() {
			return fail(fmt.Errorf("no documentation page %s in %s", args[0], cfg.DocsPath()))
		}
		if err := s.build.OnFiles(cmd.Context(), s.files); err != nil {
			return fail(err)
		}
		if !page.IsIncluded() {
			s.logger.Printf("warn: %s is excluded from the build", page.SrcURI)
		}
		src, err := os.ReadFile(page.AbsSrcPath)
		if err != nil {
			return fail(err)
		}
		out, err := s.build.OnPageMarkdown(cmd.Context(), page, string(src), s.files)
		if err != nil {
			return fail(err)
		}
		if err := writeOut(out); err != nil {
			return fail(fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

func writeOut(s string) error {
	if flagOut == "" {
		_, err := io.WriteString(os.Stdout, s)
		return err
	}
	return os.WriteFile(flagOut, []byte(s), 0o644)
}
