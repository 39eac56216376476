package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

// sourceExtensions are offered when completing a source argument.
var sourceExtensions = []string{"dot", "gv", "json"}

// completionCommand prints a completion script for the named shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stemma.

  bash:        source <(stemma completion bash)
  zsh:         stemma completion zsh > "${fpath[1]}/_stemma"
  fish:        stemma completion fish | source
  powershell:  stemma completion powershell | Out-String | Invoke-Expression

Completion covers sources (.dot, .gv and layout JSON files), formats
and styles.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerCompletions wires argument and flag completion for commands
// that take a source.
func registerCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = completeSource
	_ = cmd.RegisterFlagCompletionFunc("style", fixedCompletion(graph.StyleStemma, graph.StyleChord))
	_ = cmd.RegisterFlagCompletionFunc("passage", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	}
}

func completeSource(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sourceExtensions, cobra.ShellCompDirectiveFilterFileExt
}

func fixedCompletion(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the last entry of a comma-separated format
// list, skipping formats already given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := ""
	seen := map[string]bool{}
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done = toComplete[:i+1]
		for _, f := range strings.Split(toComplete[:i], ",") {
			seen[strings.TrimSpace(f)] = true
		}
	}

	var out []string
	for f := range pipeline.ValidFormats {
		if !seen[f] {
			out = append(out, done+f)
		}
	}
	sort.Strings(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
