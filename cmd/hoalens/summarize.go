package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lllllllleong/hoalens/internal/gcp"
	"github.com/Lllllllleong/hoalens/internal/services"
)

var summarizeOut string

var summarizeCmd = &cobra.Command{
	Use:   "summarize <transcript.txt|->",
	Short: "Summarize a transcript with the configured summary model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		transcript, err := readInput(args[0])
		if err != nil {
			return err
		}

		vertex, err := gcp.NewVertexClient(ctx, gcp.VertexConfig{
			ProjectID:          cfg.Models.ProjectID,
			Region:             cfg.Models.VertexAIRegion,
			OCRModel:           cfg.Models.OCRModel,
			SummaryModel:       cfg.Models.SummaryModel,
			SummaryTemperature: cfg.Models.SummaryTemperature,
		})
		if err != nil {
			return err
		}
		defer vertex.Close()

		stop := spin("Summarizing with " + cfg.Models.SummaryModel)
		summary, err := services.NewSummarizer(vertex, nil).Summarize(ctx, transcript)
		stop()
		if err != nil {
			return err
		}
		return writeOutput(summarizeOut, summary)
	},
}

// readInput reads a whole file, or stdin for "-".
func readInput(path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeOut, "out", "o", "", "summary file (default stdout)")
}
