package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-spatial/tilestyle/pkg/config"
	"github.com/go-spatial/tilestyle/pkg/log"
)

const (
	cmdName = "tilestyle"
	cmdDesc = `Resolve rendering directives for vector tile features.`

	cmdExamples = `  # Resolve a stream of features at zoom 14:
  tilestyle resolve features.yaml --zoom 14

  # Read features from stdin at an exact resolution:
  cat features.yaml | tilestyle resolve --resolution 76.43702828517625

  # Re-resolve whenever the file changes:
  tilestyle resolve features.yaml -z 12 --watch

  # Show what changes between two zoom levels:
  tilestyle compare features.yaml --from-zoom 12 --to-zoom 16

  # List the rules that apply to a layer:
  tilestyle rules --layer poi_label`
)

type RootArgs struct {
	config *config.Config

	LogLevel    string
	LogFormat   string
	ConfigPath  string
	WriteConfig bool
	ShowConfig  bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the tilestyle configuration file")

	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagFilename("config", "yaml", "yml"))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupLogging(args),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, args)
		},
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewResolveCmd(NewResolveArgs(args)),
		NewCompareCmd(NewCompareArgs(args)),
		NewRulesCmd(NewRulesArgs(args)),
		NewZoomCmd(),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

func runRoot(cmd *cobra.Command, ra *RootArgs) error {
	switch {
	case ra.WriteConfig:
		return config.WriteDefaultConfig(ra.configPath(), true)

	case ra.ShowConfig:
		cfg, err := ra.Config(cmd)
		if err != nil {
			return err
		}

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		return writeYAML(cmd.OutOrStdout(), b, isTerminal(cmd.OutOrStdout()))
	}

	return cmd.Help()
}

func (ra *RootArgs) configPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.GetPath()
}

// Config loads the configuration once. A missing file at the default path
// yields the default configuration; an explicitly given path must exist.
// Logging is reconfigured from the file unless set by flag or environment.
func (ra *RootArgs) Config(cmd *cobra.Command) (*config.Config, error) {
	if ra.config != nil {
		return ra.config, nil
	}

	path := ra.configPath()

	l, err := config.NewLoaderFromFile(path)
	switch {
	case err != nil && ra.ConfigPath == "" && errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", slog.String("path", path))

		ra.config = config.NewConfig()

		return ra.config, nil

	case err != nil:
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	slog.Debug("loaded config", slog.String("path", path))

	level, format := ra.LogLevel, ra.LogFormat
	if !flagIsSet(cmd, "log-level") {
		level = cfg.Log.Level
	}
	if !flagIsSet(cmd, "log-format") {
		format = cfg.Log.Format
	}

	if level != ra.LogLevel || format != ra.LogFormat {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), level, format)
		if err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}

		slog.SetDefault(slog.New(logHandler))
	}

	ra.config = cfg

	return cfg, nil
}

// flagIsSet reports whether a flag was given on the command line or through
// its environment variable.
func flagIsSet(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}

	_, ok := os.LookupEnv(flagToEnvName(name))

	return ok
}
