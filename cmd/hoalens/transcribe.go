package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lllllllleong/hoalens/internal/gcp"
	"github.com/Lllllllleong/hoalens/internal/pdfchunk"
	"github.com/Lllllllleong/hoalens/internal/services"
)

var transcribeOut string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file.pdf>",
	Short: "Transcribe a local PDF with the configured OCR model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var transcript string
		switch cfg.Models.Transcriber {
		case "gemini":
			transcript, err = transcribeWithGemini(ctx, data)
		default:
			transcript, err = transcribeWithVertex(ctx, data)
		}
		if err != nil {
			return err
		}
		return writeOutput(transcribeOut, transcript)
	},
}

func transcribeWithVertex(ctx context.Context, data []byte) (string, error) {
	pages, err := pdfchunk.PageCount(data)
	if err != nil {
		return "", err
	}
	vertex, err := gcp.NewVertexClient(ctx, gcp.VertexConfig{
		ProjectID:          cfg.Models.ProjectID,
		Region:             cfg.Models.VertexAIRegion,
		OCRModel:           cfg.Models.OCRModel,
		SummaryModel:       cfg.Models.SummaryModel,
		SummaryTemperature: cfg.Models.SummaryTemperature,
	})
	if err != nil {
		return "", err
	}
	defer vertex.Close()

	bar := getProgressBar(pages, "Transcribing")
	t := services.NewTranscriber(nil, vertex, nil, services.TranscriberConfig{
		Delay:  cfg.Models.TranscribeDelay,
		OnPage: func(done, total int) { _ = bar.Set(done) },
	})
	transcript, err := t.TranscribeBytes(ctx, data)
	_ = bar.Finish()
	fmt.Fprintln(colorStderr)
	return transcript, err
}

func transcribeWithGemini(ctx context.Context, data []byte) (string, error) {
	g, err := services.NewGeminiFileTranscriber(ctx, cfg.Models.GeminiAPIKey, cfg.Models.GeminiModel, nil, nil)
	if err != nil {
		return "", err
	}
	defer g.Close()

	stop := spin("Transcribing with " + cfg.Models.GeminiModel)
	transcript, err := g.TranscribeBytes(ctx, data)
	stop()
	return transcript, err
}

// writeOutput writes text to path, or to stdout when path is empty or "-".
func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	color.Green("✓ Wrote %d characters to %s", len(text), path)
	return nil
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeOut, "out", "o", "", "transcript file (default stdout)")
}
