package router

import (
	"github.com/finman/user-service/internal/application"
	"github.com/finman/user-service/internal/container"
	handlers "github.com/finman/user-service/internal/interface/http"
	"github.com/finman/user-service/internal/router/modules"
	"github.com/finman/user-service/pkg/hasher"
)

func buildService() *application.Service {
	cfg := container.GetConfig()
	return application.NewService(
		container.GetUserRepo(),
		hasher.NewBcrypt(),
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESUsersIndex,
		cfg.CompanyName,
		cfg.MailSendEnabled,
	)
}

// InitModules wires every feature module into the registry. Call once during
// startup after the container has been populated.
func InitModules(r *Registry) {
	service := buildService()
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(service, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(service, logger)))
	r.Add(modules.NewHealthModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
