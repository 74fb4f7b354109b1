package controllers_fx

import (
	"go.uber.org/fx"

	"listaai/internal/api"
	"listaai/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewListController),
	fx.Provide(controllers.NewItemController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewCheckoutController),
	fx.Provide(api.NewRouter))
