package router

import (
	"github.com/oksasatya/sample-social/internal/application"
	"github.com/oksasatya/sample-social/internal/container"
	"github.com/oksasatya/sample-social/internal/infrastructure/objectstore"
	pginfra "github.com/oksasatya/sample-social/internal/infrastructure/postgres"
	"github.com/oksasatya/sample-social/internal/infrastructure/search"
	handlers "github.com/oksasatya/sample-social/internal/interface/http"
	"github.com/oksasatya/sample-social/internal/router/modules"
	"github.com/oksasatya/sample-social/pkg/health"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

type Deps struct {
	Accounts *application.AccountService
	Follows  *application.FollowService
	Sessions *application.SessionService
}

// buildDeps wires repositories and services from the container singletons.
func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	follows := pginfra.NewFollowRepository(pool)
	statuses := pginfra.NewStatusRepository(pool)
	hasher := helpers.BcryptHasher{}

	sessions := application.NewSessionService(users, container.GetJWT(), hasher, container.GetRedis(), logger, cfg.SessionTTL)

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	notifier := application.NewQueueNotifier(pub, cfg, logger)

	accounts := application.NewAccountService(users, statuses, application.UserPolicy{}, hasher, notifier, sessions, logger)
	accounts.UsersPageSize = cfg.UsersPageSize
	accounts.StatusesPageSize = cfg.StatusesPageSize
	if es := container.GetES(); es != nil {
		accounts.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		accounts.Avatars = objectstore.NewAvatarStore(gcs, cfg.GCSBucket)
	}

	graph := application.NewFollowService(users, follows, logger)
	graph.PageSize = cfg.FollowsPageSize

	return Deps{Accounts: accounts, Follows: graph, Sessions: sessions}
}

func readiness() *health.Readiness {
	checkers := []health.Checker{health.Postgres(container.GetPGPool())}
	if rdb := container.GetRedis(); rdb != nil {
		checkers = append(checkers, health.Redis(rdb))
	}
	if es := container.GetES(); es != nil {
		checkers = append(checkers, health.Elasticsearch(es))
	}
	return health.NewReadiness(checkers...)
}

// InitModules builds every feature module and adds it to the registry.
// Call once at startup after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := buildDeps()

	userHandler := handlers.NewUserHandler(deps.Accounts, deps.Follows, logger, cfg.CookieDomain, cfg.CookieSecure)
	followHandler := handlers.NewFollowHandler(deps.Follows, logger)
	authHandler := handlers.NewAuthHandler(deps.Sessions, logger, cfg.CookieDomain, cfg.CookieSecure)
	healthHandler := handlers.NewHealthHandler(readiness(), logger)

	r.Add(modules.NewUserModule(userHandler, followHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewDebugModule(healthHandler, cfg.DebugMetricsEnabled))
}
