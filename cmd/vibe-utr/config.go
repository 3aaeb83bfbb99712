package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-utr configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-utr.yaml.",
		Example: `  vibe-utr config                        # show all config
  vibe-utr config set extend.cds true    # match on coding exons by default
  vibe-utr config get extend.workers     # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}
}

// fileSettings returns the settings that came from the config file, without
// flag defaults bound by subcommands.
func fileSettings() map[string]any {
	settings := make(map[string]any)
	for _, key := range viper.AllKeys() {
		if viper.InConfig(key) {
			settings[key] = viper.Get(key)
		}
	}
	return settings
}

func runConfigShow(w io.Writer) error {
	settings := fileSettings()
	if len(settings) == 0 {
		fmt.Fprintln(w, "# No configuration set. Config file: ~/.vibe-utr.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

func runConfigSet(w io.Writer, key, value string) error {
	// Parse boolean-like values
	var parsed any = value
	switch value {
	case "true", "yes", "on":
		parsed = true
	case "false", "no", "off":
		parsed = false
	}

	cfgFile, err := defaultConfigPath()
	if err != nil {
		return err
	}

	// Write a fresh viper so bound flag defaults don't leak into the file.
	out := viper.New()
	for k, v := range fileSettings() {
		out.Set(k, v)
	}
	out.Set(key, parsed)

	if err := out.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	viper.Set(key, parsed)

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(w io.Writer, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(w, val)
	return nil
}
