package setup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contactrelay/contact-api/internal/config"
	"github.com/contactrelay/contact-api/internal/domain"
	"github.com/contactrelay/contact-api/internal/email"
	"github.com/contactrelay/contact-api/internal/handler"
	"github.com/contactrelay/contact-api/internal/logger"
	"github.com/contactrelay/contact-api/internal/middleware/ratelimit"
	"github.com/contactrelay/contact-api/internal/service"
	mongostore "github.com/contactrelay/contact-api/internal/storage/mongo"
)

// Dependencies holds every process-scoped collaborator: opened once at
// startup, closed once at shutdown.
type Dependencies struct {
	Config  *config.Config
	Storage *mongostore.Storage
	Handler *handler.Handler
	Limiter ratelimit.Store

	rdb     *redis.Client
	memStop func()
}

// New wires config -> storage -> notifier -> service -> handler ->
// limiter.
func New(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := mongostore.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier := email.New(cfg)
	contact := service.NewContact(storage, notifier, domain.NewValidator(), cfg)
	h := handler.New(contact, storage, cfg)

	deps := &Dependencies{
		Config:  cfg,
		Storage: storage,
		Handler: h,
	}

	window := time.Duration(cfg.Public.RateLimitWindowMin) * time.Minute
	if cfg.Private.RedisAddr != "" {
		deps.rdb = redis.NewClient(&redis.Options{Addr: cfg.Private.RedisAddr})
		deps.Limiter = ratelimit.NewRedisStore(deps.rdb, cfg.Public.RateLimitMax, window)
		logger.Log.Info("rate limiting via redis", "addr", cfg.Private.RedisAddr)
	} else {
		mem := ratelimit.NewMemoryStore(cfg.Public.RateLimitMax, window)
		deps.Limiter = mem
		deps.memStop = mem.Stop
	}

	return deps, nil
}

// Close releases all collaborators, storage last.
func (d *Dependencies) Close(ctx context.Context) {
	if d.memStop != nil {
		d.memStop()
	}
	if d.rdb != nil {
		if err := d.rdb.Close(); err != nil {
			logger.Log.Error("failed to close redis client", "error", err)
		}
	}
	if err := d.Storage.Cleanup(ctx); err != nil {
		logger.Log.Error("failed to disconnect record store", "error", err)
	}
}
