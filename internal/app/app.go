// Package app wires the gateway's components together and owns their
// lifecycle.
package app

import (
	"context"
	"sync"

	"github.com/nvarley/querycache/internal/gateway"
	"github.com/nvarley/querycache/internal/storage"
	"github.com/nvarley/querycache/pkg/cache"
	"github.com/nvarley/querycache/pkg/config"
	"github.com/nvarley/querycache/pkg/healthprobe"
	"github.com/nvarley/querycache/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	responseCache *cache.ResponseCache
	gateway       *gateway.Service
	storage       storage.Storage
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
