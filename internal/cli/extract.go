package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gstassist/internal/extract"
)

var extractType string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text of a notice file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Ext == nil {
			return fmt.Errorf("extractor not initialized")
		}
		text, err := readNotice(cmd, args[0], extractType)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractType, "type", "", "Media type of the file (detected from the extension by default)")
	rootCmd.AddCommand(extractCmd)
}

var extensionTypes = map[string]string{
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func mediaTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	return mime.TypeByExtension(ext)
}

func readNotice(cmd *cobra.Command, path, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = mediaTypeFor(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening notice: %w", err)
	}
	defer f.Close()
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	text, err := Ext.Extract(commandContext(cmd), extract.File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Size:      size,
		Body:      f,
	})
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	return text, nil
}
