package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lllllllleong/hoalens/internal/search"
)

var (
	searchCurrent int
	searchHTML    bool
)

var (
	matchColor   = color.New(color.BgYellow, color.FgBlack)
	currentColor = color.New(color.BgHiRed, color.FgWhite, color.Bold)
)

var searchCmd = &cobra.Command{
	Use:   "search <transcript.txt|-> <query>",
	Short: "Highlight every occurrence of a phrase in a transcript",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript, err := readInput(args[0])
		if err != nil {
			return err
		}

		s := search.NewSession(transcript)
		s.SetQuery(args[1])
		s.Focus(searchCurrent)

		out := cmd.OutOrStdout()
		if searchHTML {
			_, err := fmt.Fprintln(out, search.HTML(s.Segments()))
			return err
		}
		printSegments(out, s.Segments())

		if idx, ok := s.Current(); ok {
			color.New(color.FgCyan).Fprintf(os.Stderr, "\nmatch %d of %d\n", idx+1, s.MatchCount())
		} else {
			color.New(color.FgYellow).Fprintln(os.Stderr, "\nno matches")
		}
		return nil
	},
}

func printSegments(w io.Writer, segs []search.Segment) {
	for _, seg := range segs {
		switch {
		case seg.Current:
			currentColor.Fprint(w, seg.Text)
		case seg.Match:
			matchColor.Fprint(w, seg.Text)
		default:
			fmt.Fprint(w, seg.Text)
		}
	}
	fmt.Fprintln(w)
}

func init() {
	searchCmd.Flags().IntVarP(&searchCurrent, "current", "c", 0, "index of the focused match; wraps around")
	searchCmd.Flags().BoolVar(&searchHTML, "html", false, "print the highlighted transcript as HTML")
}
