package commands

import (
	"github.com/spf13/cobra"

	"entity-mapper/internal/mapping"
)

func newScanCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scan [patterns...]",
		Short: "List the entity types of Go packages",
		Long: `Load the given Go packages and list every struct type with members tagged
mapper:"key". The result is printed as the entities section of a mapping file,
or written to --output.`,
		Example: "  entity-mapper scan ./warehouse/...\n  entity-mapper scan -o mapping.yaml ./...",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, patterns, err := a.loadGraph(args)
			if err != nil {
				return err
			}

			f := &mapping.File{Version: mapping.CurrentVersion}
			for _, e := range graph.Entities() {
				f.Entities = append(f.Entities, mapping.EntityDef{
					Type: e.ID.String(),
					Keys: mapping.StringOrArray(e.Keys),
				})
			}

			a.log.Info().Strs("patterns", patterns).Int("entities", len(f.Entities)).Msg("scanned packages")

			if output != "" {
				if err := mapping.WriteFile(f, output); err != nil {
					return err
				}

				a.printer(cmd).Success("wrote %d entities to %s", len(f.Entities), output)

				return nil
			}

			data, err := mapping.Marshal(f)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the mapping file to this path instead of stdout")

	return cmd
}
