// Package cli implements the injection command line.
package cli

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/NVIDIA/injection"
)

var version = "dev"

// NewRootCmd returns the root command reading settings from the viper instance.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:     "injection",
		Short:   "Resolve dependencies from prioritized injectors",
		Long:    `Resolve dependencies and call functions with arguments injected from literal values.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.Bool("strict", false, "disable structural coercions in type matching")
	flags.String("log-level", zerolog.InfoLevel.String(), "log level written to stderr")
	flags.Int("priority", injection.DefaultPriority, "priority of the value injector")
	flags.StringArrayP("value", "v", nil, "injected value as [name=]kind:literal (repeatable)")
	flags.Bool("list", false, "inject values from an object list instead of a value bag")
	flags.Bool("trace", false, "write call spans to stderr")

	// Bind flags to viper
	_ = v.BindPFlag(injection.ConfigStrictTypes, flags.Lookup("strict"))
	_ = v.BindPFlag(injection.ConfigLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(injection.ConfigDefaultPriority, flags.Lookup("priority"))

	root.AddCommand(newResolveCmd(v), newCallCmd(v))
	return root
}

// Execute runs the root command with the global viper instance.
func Execute(ctx context.Context) error {
	return NewRootCmd(viper.GetViper()).ExecuteContext(ctx)
}

// session holds the manager built from flags and configuration.
type session struct {
	manager  *injection.Manager
	logger   zerolog.Logger
	provider *sdktrace.TracerProvider
}

// newSession builds a manager with an injector of the --value flags.
func newSession(cmd *cobra.Command, v *viper.Viper, opts ...injection.Option) (*session, error) {
	cfg, err := injection.LoadConfig(v)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	flags := cmd.Flags()
	values, _ := flags.GetStringArray("value")
	args := make([]any, 0, len(values))
	for _, value := range values {
		arg, err := parseValue(value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	injectorOpts := append(cfg.InjectorOpts(), injection.WithInjectorLogger(logger))
	var injector injection.Injector
	if list, _ := flags.GetBool("list"); list {
		injector = injection.NewNamedObjectList(listEntries(args), injectorOpts...)
	} else {
		injector = injection.NewValueBag(args, injectorOpts...)
	}

	s := &session{logger: logger}
	opts = append(opts, injection.WithConfig(cfg), injection.WithLogger(logger))
	if trace, _ := flags.GetBool("trace"); trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		s.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		opts = append(opts, injection.WithTracerProvider(s.provider))
	}

	s.manager = injection.New(opts...)
	s.manager.AddInjector(injector)
	logger.Debug().Int("values", len(args)).Int("priority", cfg.DefaultPriority).Msg("session created")
	return s, nil
}

// close flushes pending spans.
func (s *session) close(ctx context.Context) {
	if s.provider == nil {
		return
	}
	if err := s.provider.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to shutdown tracer provider")
	}
}

// listEntries converts value bag arguments to object list entries.
func listEntries(args []any) []injection.Entry {
	entries := make([]injection.Entry, 0, len(args))
	for _, arg := range args {
		if named, ok := arg.(injection.Arg); ok {
			entries = append(entries, injection.Entry{Key: named.Name, Value: named.Value})
		} else {
			entries = append(entries, injection.Entry{Value: arg})
		}
	}
	return entries
}

// writeJSON writes the value as a single JSON line.
func writeJSON(w io.Writer, value any) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
