package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

// configCmd groups config file helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change settings",
	Long: `Inspect or change sysdash settings.

Values shown by 'config get' are the effective ones: file values merged
over defaults, with SYSDASH_* environment overrides applied.

Examples:
  sysdash config get
  sysdash config get refresh.interval
  sysdash config set refresh.interval 5s
  sysdash config path`,
}

var configGetCmd = &cobra.Command{
	Use:       "get [key]",
	Short:     "Print effective settings",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: config.KeyNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return configGet(cmd.OutOrStdout(), key)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(cmd.OutOrStdout(), args[0], args[1])
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configFilePath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configFilePath returns the file config commands act on: the loaded one,
// or where 'sysdash init' would create it.
func configFilePath() (string, error) {
	path, err := config.Find(cfgFile)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = config.DefaultPath()
	}
	return path, nil
}

func configGet(w io.Writer, key string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if key != "" {
		k, ok := config.LookupKey(key)
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown config key '%s'", key),
				"Run 'sysdash config get' to list every key")
		}
		fmt.Fprintln(w, k.Value(cfg))
		return nil
	}

	rows := make([][]string, 0, len(config.Keys))
	for _, k := range config.Keys {
		rows = append(rows, []string{k.Name, fmt.Sprint(k.Value(cfg))})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "KEY", Width: 28},
		{Title: "VALUE", Width: 40},
	}, rows))
	return nil
}

func configSet(w io.Writer, key, value string) error {
	path := config.ExpandTilde(cfgFile)
	if path == "" {
		found, err := configFilePath()
		if err != nil {
			return err
		}
		path = found
	}

	if err := config.Set(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s = %s (%s)\n", ui.SymbolSuccess, key, value, path)
	return nil
}
