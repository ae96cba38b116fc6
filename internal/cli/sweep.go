package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/scroll"
)

// Layout is the sweep input: a viewport size and the page's sections.
type Layout struct {
	ViewportHeight float64          `json:"viewportHeight"`
	DocumentHeight float64          `json:"documentHeight,omitempty"`
	Sections       []scroll.Section `json:"sections"`
}

// SweepStep is one row of sweep output.
type SweepStep struct {
	Offset   float64         `json:"offset"`
	Section  string          `json:"section"`
	Progress scroll.Progress `json:"progress"`
}

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	LayoutPath   string
	From, To     float64
	Step         float64
	HysteresisPx float64
	Reverse      bool
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(root *RootOptions) *cobra.Command {
	opts := &SweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Replay a scroll sweep over a layout and print the tracked section",
		Long: `Reads a layout JSON file and scrolls through it in fixed steps, printing the
section the tracker settles on and the page progress at each offset. Useful
for tuning hysteresis against a real page layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(opts.LayoutPath)
			if err != nil {
				return fmt.Errorf("reading layout: %w", err)
			}
			var layout Layout
			if err := json.Unmarshal(data, &layout); err != nil {
				return fmt.Errorf("parsing layout %s: %w", opts.LayoutPath, err)
			}

			steps, err := Sweep(layout, *opts)
			if err != nil {
				return err
			}
			return writeSweep(cmd.OutOrStdout(), root.Format, steps)
		},
	}

	cmd.Flags().StringVarP(&opts.LayoutPath, "layout", "l", "", "layout JSON file (required)")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "first scroll offset")
	cmd.Flags().Float64Var(&opts.To, "to", -1, "last scroll offset (default: bottom of the page)")
	cmd.Flags().Float64Var(&opts.Step, "step", 100, "pixels per step")
	cmd.Flags().Float64Var(&opts.HysteresisPx, "hysteresis", scroll.DefaultHysteresisPx, "hysteresis in pixels")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", false, "sweep from bottom to top")
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

// Sweep scrolls through layout and resolves every step with one Resolver,
// so hysteresis carries from step to step the way it does in a browser.
func Sweep(layout Layout, opts SweepOptions) ([]SweepStep, error) {
	if opts.Step <= 0 {
		return nil, fmt.Errorf("step must be positive")
	}
	if layout.ViewportHeight <= 0 {
		return nil, fmt.Errorf("viewportHeight must be positive")
	}

	ids := make([]string, 0, len(layout.Sections))
	docHeight := layout.DocumentHeight
	for _, s := range layout.Sections {
		ids = append(ids, s.ID)
		if s.Bottom() > docHeight {
			docHeight = s.Bottom()
		}
	}
	to := opts.To
	if to < 0 {
		to = docHeight - layout.ViewportHeight
	}

	vp := scroll.Viewport{ViewportHeight: layout.ViewportHeight, DocumentHeight: docHeight}
	g := scroll.NewSnapshotGeometry(vp, layout.Sections...)
	resolver, err := scroll.NewResolver(g, ids, opts.HysteresisPx)
	if err != nil {
		return nil, err
	}
	calc := scroll.Calculator{Geometry: g, Mode: scroll.ModePage, VisibleAfterPx: scroll.DefaultVisibleAfterPx}

	var offsets []float64
	for i := 0; ; i++ {
		off := opts.From + float64(i)*opts.Step
		if off > to {
			break
		}
		offsets = append(offsets, off)
	}
	if opts.Reverse {
		for i, j := 0, len(offsets)-1; i < j; i, j = i+1, j-1 {
			offsets[i], offsets[j] = offsets[j], offsets[i]
		}
	}

	steps := make([]SweepStep, 0, len(offsets))
	for _, off := range offsets {
		g.ScrollTo(off)
		steps = append(steps, SweepStep{Offset: off, Section: resolver.Update(), Progress: calc.Compute()})
	}
	return steps, nil
}

func writeSweep(w io.Writer, format string, steps []SweepStep) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(steps)
	}
	fmt.Fprintf(w, "%-8s %-10s %s\n", "OFFSET", "SECTION", "PROGRESS")
	for _, s := range steps {
		section := s.Section
		if section == "" {
			section = "-"
		}
		fmt.Fprintf(w, "%-8.0f %-10s %.1f%%\n", s.Offset, section, s.Progress.Percent)
	}
	return nil
}
