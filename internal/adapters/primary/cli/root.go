// Package cli implements the tvtid command line interface.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/application/services"
	"github.com/kirkegaard/tvtid-go/internal/domain"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/cache"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/config"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/logging"
)

var (
	errNoArguments = errors.New(`tvtid needs to be given arguments to run. Refer to "tvtid -h" for more info`)
	errNoChannel   = errors.New("we need to know what channel you want the schedule for")
)

// Deps are the services commands run against.
type Deps struct {
	Channels  *services.ChannelService
	Schedules *services.ScheduleService
	// Cache is nil when response caching is disabled.
	Cache    *cache.Cache
	Location *time.Location
}

// Builder creates the command dependencies from the loaded configuration.
type Builder func(cfg *config.Config, logger *zap.Logger) (*Deps, error)

// Option configures the root command.
type Option func(*runtime)

// WithBuilder replaces the production dependency wiring.
func WithBuilder(b Builder) Option {
	return func(r *runtime) { r.build = b }
}

// runtime holds per-invocation state shared by all commands.
type runtime struct {
	configPath string
	logLevel   string
	build      Builder

	cfg    *config.Config
	logger *zap.Logger
	deps   *Deps
}

// NewRootCLI creates the tvtid command tree.
func NewRootCLI(opts ...Option) *cobra.Command {
	rt := &runtime{build: NewDeps}
	for _, opt := range opts {
		opt(rt)
	}

	var channel, date string

	rootCmd := &cobra.Command{
		Use:   "tvtid",
		Short: "tvtid - Fetches the tv schedule from tvtid.tv2.dk",
		Long: `tvtid looks up Danish TV schedules.

Without a date the program airing now and everything after it today is shown.
Broadcast days run until 06:00, so late night lookups use the previous day's schedule.`,
		Example: `  tvtid -c "dr1"
  tvtid -c "tv 2 charlie" -d 2024-03-01
  tvtid now -c dr1 -c dr2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 {
				return errNoArguments
			}
			if channel == "" {
				return errNoChannel
			}

			deps, err := rt.services(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			match, err := deps.Channels.Resolve(ctx, channel)
			if err != nil {
				return channelError(err)
			}

			if date != "" {
				day, err := services.ParseDate(date, deps.Location)
				if err != nil {
					return err
				}
				schedules, err := deps.Schedules.SchedulesFor(ctx, day, []string{match.ChannelID})
				if err != nil {
					return err
				}
				return writeDay(cmd.OutOrStdout(), schedules[0], deps.Location)
			}

			schedules, err := deps.Schedules.SchedulesForToday(ctx, []string{match.ChannelID})
			if err != nil {
				return err
			}
			sch := schedules[0]
			return writeNow(cmd.OutOrStdout(), sch, deps.Schedules.Now(sch), deps.Location)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	rootCmd.Flags().StringVarP(&channel, "channel", "c", "", `sets the channel for the schedule, e.g. "dr1"`)
	rootCmd.Flags().StringVarP(&date, "date", "d", "", "sets the date for the schedule (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&rt.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(newNowCLI(rt))
	rootCmd.AddCommand(newChannelsCLI(rt))
	rootCmd.AddCommand(newProgramCLI(rt))
	rootCmd.AddCommand(newCacheCLI(rt))
	rootCmd.AddCommand(newConfigCLI(rt))

	return rootCmd
}

// config loads and validates the configuration once per invocation.
func (rt *runtime) config() (*config.Config, error) {
	if rt.cfg != nil {
		return rt.cfg, nil
	}

	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return nil, err
	}
	if rt.logLevel != "" {
		cfg.Log.Level = rt.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	rt.cfg = cfg
	return cfg, nil
}

// services builds the logger and command dependencies once per invocation.
func (rt *runtime) services(cmd *cobra.Command) (*Deps, error) {
	if rt.deps != nil {
		return rt.deps, nil
	}

	cfg, err := rt.config()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	rt.logger = logger

	deps, err := rt.build(cfg, logger)
	if err != nil {
		return nil, err
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	rt.deps = deps
	return deps, nil
}

// channelError rewords matcher failures for the terminal.
func channelError(err error) error {
	switch {
	case errors.Is(err, domain.ErrChannelNotFound), errors.Is(err, domain.ErrNoChannelsAvailable):
		return fmt.Errorf("couldn't find that channel: %w", err)
	default:
		return err
	}
}
