package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

// renderCommand creates the render command for generating drawings.
//
// The input is either a graph description (file or URL) or a layout.json
// written by the layout command. Saved layouts skip straight to the
// render stage, so they cannot produce DOT output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [source|layout.json]",
		Short: "Render a graph description or a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed hover titles and data attributes in SVG")
	layoutFlags(cmd, &opts)
	registerCompletions(cmd)

	return cmd
}

// runRender produces every requested format and writes one file each.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	c.applyChordDefaults(&opts)

	prog := newProgress(ctx)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var (
		l         *graph.Layout
		artifacts map[string][]byte
		cacheHit  bool
	)
	if strings.HasSuffix(input, layoutSuffix) {
		l, err = graph.ReadLayoutFile(input)
		if err == nil {
			prog.stage("read layout", "path", input)
			opts.Source = input
			artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, l, nil, opts)
		}
	} else {
		opts.Source = input
		var result *pipeline.Result
		result, err = runner.Execute(ctx, opts)
		if err == nil {
			l, artifacts = result.Layout, result.Artifacts
			cacheHit = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
		}
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	prog.done("rendered", "artifacts", len(paths), "cached", cacheHit)

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printLayoutSummary(l, cacheHit)
	return nil
}

// writeArtifacts writes each artifact and returns the written paths in
// format order. A single format with an explicit output goes to exactly
// that path; otherwise files are named <base>.<format>.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	ordered := append([]string(nil), formats...)
	sort.Strings(ordered)

	var paths []string
	for _, format := range ordered {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
