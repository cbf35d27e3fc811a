package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds environment variables to the flags of cmd and all its
// subcommands. Variable names are RULETREE_<FLAG_NAME>, with the flag name
// upper-cased and dashes replaced by underscores.
//
// Arguments take precedence over environment variables, which take
// precedence over default values.
func bindEnvVars(cmd *cobra.Command) {
	cmd.Flags().VisitAll(bindFlagToEnv)
	cmd.PersistentFlags().VisitAll(bindFlagToEnv)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
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

	if err := flag.Value.Set(envValue); err != nil {
		// Keep the default value.
		log.Error().
			Err(err).
			Str("flag", flag.Name).
			Str("env", envName).
			Str("value", envValue).
			Msg("Failed to set flag from environment variable")
	}
}

// flagToEnvName converts a flag name to its environment variable name.
// Example: "log-level" -> "RULETREE_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	envName := strings.ReplaceAll(flagName, "-", "_")
	return strings.ToUpper(cmdName + "_" + envName)
}
