package list_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"listaai/internal/repositories"
	"listaai/internal/services"
	"listaai/pkg/storage"
)

var Module = fx.Provide(
	provideListRepo, provideItemRepo, provideListService, provideItemService)

func provideListRepo(db *gorm.DB) repositories.ListRepository {
	return repositories.NewListRepository(db)
}

func provideItemRepo(db *gorm.DB) repositories.ItemRepository {
	return repositories.NewItemRepository(db)
}

func provideListService(listRepo repositories.ListRepository, disk storage.Disk) services.ListServiceInterface {
	return services.NewListService(listRepo, disk)
}

func provideItemService(itemRepo repositories.ItemRepository, lists services.ListServiceInterface) services.ItemServiceInterface {
	return services.NewItemService(itemRepo, lists)
}
