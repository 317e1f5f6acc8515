package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NVIDIA/injection"
)

// builtins returns the signatures callable from the command line.
func builtins() *injection.SignatureRegistry {
	return injection.NewSignatureRegistry().
		Register("greet", injection.Func(greet,
			injection.Param("name"),
			injection.Param("greeting", injection.Untyped(), injection.WithDefault("Hello")),
		)).
		Register("repeat", injection.Func(strings.Repeat,
			injection.Param("text"),
			injection.Param("count"),
		)).
		Register("sum", injection.Func(sum,
			injection.Param("a"),
			injection.Param("b", injection.WithDefault(0)),
		)).
		Register("describe", injection.Func(describe,
			injection.Param("value", injection.Untyped(), injection.Nullable()),
		))
}

// builtinNames lists the names of builtin signatures.
var builtinNames = []string{"describe", "greet", "repeat", "sum"}

func greet(name, greeting string) string {
	return greeting + ", " + name + "!"
}

func sum(a, b float64) float64 {
	return a + b
}

func describe(value any) string {
	if value == nil {
		return injection.TypeNull
	}
	return injection.Category(value)
}

func newCallCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <symbol>",
		Short: "Call a builtin function with injected arguments",
		Long: fmt.Sprintf(`Call a builtin function with arguments injected from the values
and print its results as a JSON array.

Builtin functions: %s.

Examples:
  injection call greet -v name=string:World
  injection call sum -v a=int:1 -v b=float:0.5`, strings.Join(builtinNames, ", ")),
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return builtinNames, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, v, injection.WithSignatureService(builtins()))
			if err != nil {
				return err
			}
			defer s.close(cmd.Context())

			result, err := s.manager.CallContext(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := result.Error(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result.Values())
		},
	}
	return cmd
}
