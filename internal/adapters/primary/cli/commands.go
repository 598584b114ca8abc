package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirkegaard/tvtid-go/internal/infrastructure/config"
)

func newNowCLI(rt *runtime) *cobra.Command {
	var (
		names []string
		next  int
	)

	nowCmd := &cobra.Command{
		Use:   "now",
		Short: "Show what is airing right now on several channels",
		Long: `Show the current program and the next few on each channel.

Without -c the configured default channels are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := rt.services(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ids := make([]string, 0, len(names))
			for _, name := range names {
				m, err := deps.Channels.Resolve(ctx, name)
				if err != nil {
					return channelError(err)
				}
				ids = append(ids, m.ChannelID)
			}

			rows, err := deps.Schedules.Lineup(ctx, ids)
			if err != nil {
				return err
			}
			return writeLineup(cmd.OutOrStdout(), rows, next, deps.Location)
		},
	}

	nowCmd.Flags().StringArrayVarP(&names, "channel", "c", nil, "channel to include; repeat for more")
	nowCmd.Flags().IntVarP(&next, "next", "n", 3, "number of upcoming programs per channel")

	return nowCmd
}

func newChannelsCLI(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List all channels known to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := rt.services(cmd)
			if err != nil {
				return err
			}
			channels, err := deps.Channels.List(cmd.Context())
			if err != nil {
				return err
			}
			return writeChannels(cmd.OutOrStdout(), channels)
		},
	}
}

func newProgramCLI(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "program <channel-id> <program-id>",
		Short: "Show the details of a single program",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := rt.services(cmd)
			if err != nil {
				return err
			}
			p, err := deps.Schedules.Program(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeProgram(cmd.OutOrStdout(), p, deps.Location)
		},
	}
}

func newCacheCLI(rt *runtime) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := rt.services(cmd)
			if err != nil {
				return err
			}
			if deps.Cache == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Response caching is disabled, nothing to clear")
				return nil
			}
			if err := deps.Cache.Purge(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	})

	return cacheCmd
}

func newConfigCLI(rt *runtime) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rt.configPath
			if path == "" {
				return errors.New("no config path: pass --config")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
