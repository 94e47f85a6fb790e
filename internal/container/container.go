package container

import (
	"oha-portal/internal/config"
	"oha-portal/internal/service"
	"oha-portal/internal/store"
	"oha-portal/pkg/logger"
	"oha-portal/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	Store  store.Store

	Proposals    *service.ProposalService
	Votes        *service.VoteService
	Comments     *service.CommentService
	Requests     *service.RequestService
	Applications *service.ApplicationService
	Admin        *service.AdminService
}

// New creates a new dependency injection container. When REDIS_URL is
// configured the collections live in Redis; otherwise the portal runs
// on the development file store.
func New(cfg *config.Config, log *logger.Logger) (*Container, error) {
	st, err := newStore(cfg, log)
	if err != nil {
		return nil, err
	}

	proposals := service.NewProposalService(st, cfg.LockInPeriod, log)

	c := &Container{
		Config:       cfg,
		Logger:       log,
		Store:        st,
		Proposals:    proposals,
		Votes:        service.NewVoteService(st, log),
		Comments:     service.NewCommentService(st, log),
		Requests:     service.NewRequestService(st, log),
		Applications: service.NewApplicationService(st, log),
		Admin:        service.NewAdminService(st, proposals, cfg.AdminPasscode, log),
	}
	return c, nil
}

func newStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Redis store initialized")
		return store.NewRedisStore(client, cfg.KeyPrefix, log), nil
	}

	log.WithField("data_dir", cfg.DataDir).Info("REDIS_URL not configured, using file store")
	return store.NewFileStore(cfg.DataDir, log)
}

// Close releases the container's resources.
func (c *Container) Close() error {
	return c.Store.Close()
}
