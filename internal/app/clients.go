package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/processhub-backend/internal/observability"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
	"github.com/yungbote/processhub-backend/internal/platform/gcp"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

type Clients struct {
	Store   objectstore.Store
	Bus     eventbus.Bus
	Metrics *observability.Metrics

	storeCloser  io.Closer
	otelShutdown func(context.Context) error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	c.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)
	if cfg.MetricsEnabled {
		c.Metrics = observability.NewMetrics()
	}

	// Object storage
	if cfg.Storage.IsGCS() {
		store, closer, err := gcp.NewBucketStore(ctx, log, cfg.Storage)
		if err != nil {
			c.Close(ctx)
			return Clients{}, fmt.Errorf("init bucket store: %w", err)
		}
		c.Store, c.storeCloser = store, closer
	} else {
		store, err := objectstore.NewLocalStore(log, cfg.Storage.LocalDir)
		if err != nil {
			c.Close(ctx)
			return Clients{}, fmt.Errorf("init local store: %w", err)
		}
		c.Store = store
	}

	// Redis
	c.Bus = eventbus.Nop()
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		bus, err := eventbus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			c.Close(ctx)
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		c.Bus = bus
	}
	return c, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.storeCloser != nil {
		_ = c.storeCloser.Close()
	}
	if c.otelShutdown != nil {
		_ = c.otelShutdown(ctx)
	}
}
