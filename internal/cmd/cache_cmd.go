package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the name lookup cache",
	}
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached listings",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			settings, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			c, err := openCache(settings)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.ClearAll(cmd.Context()); err != nil {
				return err
			}
			printf(cmd, "Cache cleared (%s)\n", c.Backend())
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where cached listings are stored",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			settings, err := settingsFrom(cmd.Context())
			if err != nil {
				return err
			}
			c, err := openCache(settings)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			printf(cmd, "%s\n", c.Location())

			entries, err := os.ReadDir(c.Location())
			if err != nil {
				return nil // not created yet, or not a directory
			}
			for _, e := range entries {
				info, err := e.Info()
				if err != nil || e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				printf(cmd, "  %s (%d bytes)\n", e.Name(), info.Size())
			}
			return nil
		}),
	}
}
