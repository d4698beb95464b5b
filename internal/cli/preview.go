package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geosvg/internal/preview"
	"github.com/matzehuels/geosvg/pkg/pipeline"
)

// previewCommand opens the terminal preview of a scene.
func (c *CLI) previewCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "preview [files...]",
		Short: "Preview layers in the terminal",
		Long: `Draw the outline of each layer on a braille canvas fitted to the
document's viewBox. Layers can be hidden, and the view zoomed and panned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.cache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			sets, err := runner.Load(ctx, opts)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			doc, _, err := pipeline.Compose(ctx, sets, opts)
			if err != nil {
				return fmt.Errorf("compose: %w", err)
			}
			return preview.Run(ctx, preview.New(sets, doc))
		},
	}

	flags.registerSources(cmd)
	flags.registerScene(cmd)
	flags.cache.register(cmd)

	return cmd
}
