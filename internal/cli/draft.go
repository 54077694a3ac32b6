package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	draftContext string
	draftOutput  string
	draftType    string
)

var draftCmd = &cobra.Command{
	Use:   "draft <notice-file>",
	Short: "Draft a reply to a GST notice",
	Long: `Extract the text of a notice file and draft a reply to it.

Use --context to add facts the reply should mention and --output to save the
draft to a file instead of printing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Res == nil || Ext == nil {
			return fmt.Errorf("resolver not initialized")
		}
		notice, err := readNotice(cmd, args[0], draftType)
		if err != nil {
			return err
		}

		res := Res.ResolveDraft(commandContext(cmd), notice, draftContext)
		out := cmd.OutOrStdout()
		if draftOutput != "" {
			if err := os.WriteFile(draftOutput, []byte(res.Draft), 0o644); err != nil {
				return fmt.Errorf("writing draft: %w", err)
			}
			fmt.Fprintln(out, color.GreenString("Draft saved to %s", draftOutput))
		} else {
			fmt.Fprintln(out, res.Draft)
		}
		fmt.Fprintln(out, sourceLine(res.Source))
		return nil
	},
}

func init() {
	draftCmd.Flags().StringVar(&draftContext, "context", "", "Additional context for the reply")
	draftCmd.Flags().StringVarP(&draftOutput, "output", "o", "", "Write the draft to this file")
	draftCmd.Flags().StringVar(&draftType, "type", "", "Media type of the notice (detected from the extension by default)")
	rootCmd.AddCommand(draftCmd)
}
