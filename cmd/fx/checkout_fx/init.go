package checkout_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"listaai/internal/config"
	"listaai/internal/repositories"
	"listaai/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideCheckoutRepo, provideCheckoutService, providePoller),
)

// Poller runs the background confirmation loop for the lifetime of the app.
var Poller = fx.Invoke(startPoller)

func provideCheckoutRepo(db *gorm.DB) repositories.CheckoutRepository {
	return repositories.NewCheckoutRepository(db)
}

func provideCheckoutService(
	cfg *config.Config,
	checkouts repositories.CheckoutRepository,
	lists repositories.ListRepository,
	items repositories.ItemRepository,
	users repositories.UserRepository,
	plans services.PlanServiceInterface,
	payments services.PaymentServiceInterface,
	mailer services.IMailService,
) services.CheckoutServiceInterface {
	return services.NewCheckoutService(checkouts, lists, items, users, plans, payments, mailer, services.CheckoutOptions{
		ClaimAmount: cfg.Checkout.ClaimAmount,
		TTL:         cfg.Checkout.TTL,
		CloseAfter:  cfg.Checkout.CloseAfter,
		AppBaseURL:  cfg.SMTP.AppBaseURL,
	})
}

func providePoller(cfg *config.Config, svc services.CheckoutServiceInterface) *services.CheckoutPoller {
	return services.NewCheckoutPoller(svc, cfg.Checkout.PollInterval)
}

func startPoller(lc fx.Lifecycle, poller *services.CheckoutPoller) {
	lc.Append(fx.Hook{
		OnStart: poller.Start,
		OnStop:  poller.Stop,
	})
}
