package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gstassist/internal/provider"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a GST question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Res == nil {
			return fmt.Errorf("resolver not initialized")
		}
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return errors.New("question is empty")
		}

		res := Res.ResolveQuery(commandContext(cmd), question)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Answer)
		if len(res.References) > 0 {
			fmt.Fprintln(out, color.CyanString("\nReferences:"))
			for _, ref := range res.References {
				fmt.Fprintf(out, "  - %s\n", ref)
			}
		}
		if len(res.Links) > 0 {
			fmt.Fprintln(out, color.CyanString("Links:"))
			for _, link := range res.Links {
				fmt.Fprintf(out, "  - %s\n", link)
			}
		}
		fmt.Fprintln(out, sourceLine(res.Source))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func sourceLine(source provider.Source) string {
	switch source {
	case provider.SourceFallbackStatic, provider.SourceTemplate:
		return color.YellowString("source: %s (offline)", source)
	default:
		return color.GreenString("source: %s", source)
	}
}
