package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ManifestRefresher periodically re-reads the topic manifest so new topics appear without a restart.
type ManifestRefresher struct {
	store  ManifestStore
	spec   string
	logger *zap.Logger
}

// NewManifestRefresher creates a refresher running on the cron spec, e.g. "@every 1h".
func NewManifestRefresher(store ManifestStore, spec string, logger *zap.Logger) *ManifestRefresher {
	return &ManifestRefresher{
		store:  store,
		spec:   spec,
		logger: logger,
	}
}

// Start blocks until ctx is done. An empty spec disables refreshing.
func (r *ManifestRefresher) Start(ctx context.Context) error {
	if r.spec == "" {
		r.logger.Info("manifest refresh disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(r.spec, func() { r.refresh(ctx) }); err != nil {
		return err
	}

	c.Start()
	r.logger.Info("manifest refresh started", zap.String("schedule", r.spec))

	<-ctx.Done()

	<-c.Stop().Done()
	r.logger.Info("manifest refresh stopped")
	return nil
}

func (r *ManifestRefresher) refresh(ctx context.Context) {
	added, err := r.store.RefreshManifest(ctx)
	if err != nil {
		r.logger.Error("failed to refresh manifest", zap.Error(err))
		return
	}
	if added > 0 {
		r.logger.Info("manifest refreshed", zap.Int("new_topics", added))
	}
}
