package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// inputExts are offered when completing positional input files.
var inputExts = []string{"geojson", "json", "wkt", "txt", "csv", "kml"}

// completeInputs completes positional arguments with geometry files.
func completeInputs(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return inputExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeValues completes a flag from a fixed set of values.
func completeValues(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes a comma-separated --format list, one element
// at a time.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done = toComplete[:i+1]
	}
	var out []string
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON} {
		out = append(out, done+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for geosvg.

Bash:
  $ source <(geosvg completion bash)

Zsh:
  $ geosvg completion zsh > "${fpath[1]}/_geosvg"

Fish:
  $ geosvg completion fish > ~/.config/fish/completions/geosvg.fish

PowerShell:
  PS> geosvg completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
