package router

import (
	appuser "socialite/internal/application"
	"socialite/internal/container"
	repouser "socialite/internal/domain/repository"
	pginfra "socialite/internal/infrastructure/postgres"
	handlers "socialite/internal/interface/http"
	"socialite/internal/router/modules"
)

type ModuleDeps struct {
	Repo    repouser.UserRepository
	Service *appuser.Service
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Social  *handlers.SocialHandler
}

func buildDeps() ModuleDeps {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := appuser.NewService(
		repo,
		container.GetTokens(),
		container.GetGCS(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig(),
	)

	return ModuleDeps{
		Repo:    repo,
		Service: service,
		Auth:    handlers.NewAuthHandler(service, container.GetRedis(), container.GetCookies(), container.GetTokens(), container.GetLogger()),
		Profile: handlers.NewProfileHandler(service, container.GetRedis(), container.GetCookies(), container.GetLogger()),
		Social:  handlers.NewSocialHandler(service, container.GetRedis(), container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.Auth))
	r.Add(modules.NewProfileModule(deps.Profile, deps.Repo))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	// Social last: its GET /:id catch-all must not shadow static pages.
	r.Add(modules.NewSocialModule(deps.Social, deps.Repo))
}
