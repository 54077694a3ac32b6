package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gstassist/internal/extract"
	"gstassist/internal/provider"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// Resolver answers questions and drafts replies for the commands.
type Resolver interface {
	ResolveQuery(ctx context.Context, question string) provider.AnswerResult
	ResolveDraft(ctx context.Context, fileContent, additionalContext string) provider.DraftResult
}

type Extractor interface {
	Extract(ctx context.Context, f extract.File) (string, error)
}

// Set by main before Execute.
var (
	Res Resolver
	Ext Extractor
)

var rootCmd = &cobra.Command{
	Use:   "gstassist",
	Short: "GST Assist - tax questions and notice replies from the terminal",
	Long: `gstassist answers GST questions and drafts replies to GST notices.

Answers come from the remote inference service when it is reachable, then the
local webhook, then a built-in knowledge base. Drafts fall back to a fill-in
template, so every command produces output even when offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gstassist %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
