package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

// layoutFlags registers the flags shared by layout and render.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Style, "style", "s", pipeline.DefaultStyle, "layout style: stemma (default), chord")
	cmd.Flags().StringVarP(&opts.PassageSource, "passage", "p", "", "passage JSON file or URL used as the title")
	cmd.Flags().StringVar(&opts.Title, "title", "", "diagram title (overrides the passage)")
	cmd.Flags().BoolVar(&opts.SkipAutoLayout, "no-auto-layout", false, "do not run Graphviz on unpositioned input")
	cmd.Flags().Float64Var(&opts.LeafSize, "leaf-size", 0, "chord leaf spacing in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.Tension, "tension", 0, "chord bundling tension 0..1 (default from config)")
	cmd.Flags().StringVar(&opts.ReferenceCategory, "reference", "", "chord reference category (default from config)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts and sources")
}

// layoutCommand creates the layout command for computing layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [source]",
		Short: "Compute a layout from a graph description",
		Long: `Compute a layout from a graph description.

The source is a DOT file path or URL (relative sources resolve against the
configured upstream). The output is a layout.json file (same format as
'render -f json') that can be turned into SVG/PNG/PDF with 'render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	layoutFlags(cmd, &opts)
	registerCompletions(cmd)

	return cmd
}

// runLayout reads the source, computes the layout, and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, source string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Source = source
	opts.Logger = c.Logger
	c.applyChordDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(ctx)
	text, err := pipeline.ReadText(ctx, runner.Fetcher, opts)
	if err != nil {
		return err
	}
	prog.stage("read source", "bytes", len(text))

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.Style))
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, text, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", source) + layoutSuffix
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	prog.done("computed layout", "style", l.Style, "cached", cacheHit)

	printSuccess("Layout complete")
	printFile(outputPath)
	printLayoutSummary(l, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
