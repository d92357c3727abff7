package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dshills/gitrange/internal/plugin"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "gitrange",
	Short: "Build documentation from the pages changed in a git range",
	Long: "gitrange lists the documentation pages changed between two git references, " +
		"filters unchanged pages out of a build and renders pages that use the git_range template function.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:])
}

func execute(ctx context.Context, args []string) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gitrange version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gitrange version %s\n", plugin.Version)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	addGlobalFlags(rootCmd)
}
