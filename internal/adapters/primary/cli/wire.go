package cli

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kirkegaard/tvtid-go/internal/adapters/secondary/tvtid"
	"github.com/kirkegaard/tvtid-go/internal/application/services"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/cache"
	"github.com/kirkegaard/tvtid-go/internal/infrastructure/config"
	"github.com/kirkegaard/tvtid-go/internal/ports"
)

// NewDeps wires the HTTP gateway, the persisted response cache and the services.
func NewDeps(cfg *config.Config, logger *zap.Logger) (*Deps, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []tvtid.Option{
		tvtid.WithUserAgent(cfg.Backend.UserAgent),
		tvtid.WithLocation(loc),
		tvtid.WithLogger(logger.Named("gateway")),
	}

	var rc *cache.Cache
	if cfg.Cache.Enabled {
		rc = cache.New(afero.NewOsFs(), cfg.Cache.Path, cache.WithLogger(logger.Named("cache")))
		opts = append(opts, tvtid.WithCache(rc, cfg.Cache.ChannelsExpiry, cfg.Cache.ScheduleExpiry))
	}

	gateway := tvtid.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, opts...)

	channels := services.NewChannelService(gateway, cfg.Matcher.MinScore, logger.Named("channels"))
	schedules := services.NewScheduleService(gateway, channels, ports.SystemClock)
	schedules.SetDefaultChannels(cfg.Schedule.DefaultChannels)
	schedules.SetLocation(loc)
	schedules.SetLogger(logger.Named("schedules"))

	return &Deps{
		Channels:  channels,
		Schedules: schedules,
		Cache:     rc,
		Location:  loc,
	}, nil
}
