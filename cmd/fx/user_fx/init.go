package user_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"listaai/internal/repositories"
	"listaai/internal/services"
	"listaai/pkg/utils"
)

var Module = fx.Provide(
	provideUserRepo, provideUserService)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideUserService(userRepo repositories.UserRepository, jwt *utils.JWTManager) services.UserServiceInterface {
	return services.NewUserService(userRepo, jwt)
}
