package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rapidpro/rapidpro-cli/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write CLI settings",
		Long:  "Settings live in a YAML file and can be overridden with RAPIDPRO_<KEY> environment variables (dots become underscores).",
	}
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			for _, kv := range s.All() {
				if kv.Key == args[0] {
					if isStructured(cmd) {
						return formatter(cmd).Output(kv)
					}
					printf(cmd, "%v\n", kv.Value)
					return nil
				}
			}
			return fmt.Errorf("%w: %s", config.ErrUnknownSetting, args[0])
		}),
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist one setting",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			if !isStructured(cmd) {
				printf(cmd, "Set %s = %s\n", args[0], args[1])
			}
			return nil
		}),
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every setting with its effective value",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			all := s.All()
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(all)
			}
			pairs := make([][2]string, len(all))
			for i, kv := range all {
				pairs[i] = [2]string{kv.Key, fmt.Sprint(kv.Value)}
			}
			return f.KeyValues(pairs)
		}),
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", s.Path())
			return nil
		}),
	}
}
