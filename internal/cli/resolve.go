package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolution is the output record of a query.
type resolution struct {
	Type  string `json:"type,omitempty"`
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
	Value any    `json:"value,omitempty"`
}

func newResolveCmd(v *viper.Viper) *cobra.Command {
	var queries []string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve dependencies by type and name",
		Long: `Resolve dependencies from the injected values and print one JSON line per query.

Examples:
  # Resolve by name, then by type
  injection resolve -v argument=int:99 -v "string:Here I am" -q int:argument -q string

  # Strict matching of an object list
  injection resolve --list --strict -v int:1 -q integer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v)
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			for _, flag := range queries {
				q, err := parseQuery(flag)
				if err != nil {
					return err
				}
				value, found, err := s.manager.GetDependency(q.typ, q.name)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), resolution{
					Type:  q.typ,
					Name:  q.name,
					Found: found,
					Value: value,
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "dependency request as type[:name] (repeatable)")
	return cmd
}
