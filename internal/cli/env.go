package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars sets flags of cmd and all of its subcommands from
// TILESTYLE_<FLAG_NAME> environment variables, where the flag name is upper
// cased with dashes replaced by underscores ("log-level" is read from
// TILESTYLE_LOG_LEVEL). Flags given on the command line win over the
// environment, which wins over defaults. The variable name is added to the
// flag usage.
func bindEnvVars(cmd *cobra.Command) {
	seen := map[*pflag.Flag]struct{}{}

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		visit := func(f *pflag.Flag) {
			if _, ok := seen[f]; ok {
				return
			}

			seen[f] = struct{}{}
			bindFlagToEnv(f)
		}

		c.PersistentFlags().VisitAll(visit)
		c.LocalFlags().VisitAll(visit)

		for _, sub := range c.Commands() {
			walk(sub)
		}
	}

	walk(cmd)
}

func bindFlagToEnv(flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		slog.Error("failed to set flag from environment variable",
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}
