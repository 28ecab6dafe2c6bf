package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"entity-mapper/internal/mapping"
)

func newCheckCommand(a *app) *cobra.Command {
	var pkgs []string

	cmd := &cobra.Command{
		Use:   "check [mapping.yaml]",
		Short: "Validate a mapping file",
		Long: `Load and validate a YAML mapping file. With --packages the entity and
mapping types and their members are also resolved against the loaded Go
packages. Exits with a non-zero status when errors are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Mapping
			if len(args) > 0 {
				path = args[0]
			}

			if path == "" {
				return errors.New("no mapping file given (pass it as an argument or set mapping in entity-mapper.yaml)")
			}

			f, err := mapping.LoadFile(path)
			if err != nil {
				return err
			}

			diags := mapping.Validate(f)

			if len(pkgs) > 0 || len(a.cfg.Packages) > 0 {
				if !diags.IsValid() {
					a.log.Warn().Msg("skipping type resolution of an invalid mapping file")
				} else {
					graph, _, err := a.loadGraph(pkgs)
					if err != nil {
						return err
					}

					diags.Merge(*mapping.Check(f, graph))
				}
			}

			a.log.Debug().Str("file", path).Int("diagnostics", diags.Len()).Msg("checked mapping")

			p := a.printer(cmd)
			p.Diagnostics(diags)

			if diags.HasErrors() {
				return fmt.Errorf("%s: %d errors", path, len(diags.Errors))
			}

			p.Success("%s is valid (%s)", path, f.Summary())

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&pkgs, "packages", "p", nil, "package patterns to resolve types against")

	return cmd
}
