package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lllllllleong/hoalens/internal/pdfchunk"
)

var chunkOutDir string

var chunkCmd = &cobra.Command{
	Use:   "chunk <file.pdf>",
	Short: "Split a PDF into single-page PDFs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		chunks, err := pdfchunk.Split(data)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(chunkOutDir, 0o755); err != nil {
			return err
		}

		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		bar := getProgressBar(len(chunks), "Writing pages")
		for i, chunk := range chunks {
			name := filepath.Join(chunkOutDir, fmt.Sprintf("%s-page-%03d.pdf", base, i+1))
			if err := os.WriteFile(name, chunk, 0o644); err != nil {
				return err
			}
			_ = bar.Add(1)
		}
		_ = bar.Finish()
		color.Green("\n✓ Wrote %d pages to %s", len(chunks), chunkOutDir)
		return nil
	},
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkOutDir, "out", "o", ".", "directory for the page files")
}
