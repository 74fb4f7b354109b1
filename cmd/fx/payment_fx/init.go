package payment_fx

import (
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"listaai/internal/config"
	"listaai/internal/repositories"
	"listaai/internal/services"
	mem "listaai/pkg/memcache"
)

var Module = fx.Provide(
	provideGateway,
	providePaymentRepo,
	providePlanRepo,
	providePlanService,
	providePaymentService,
)

func provideGateway(cfg *config.Config) services.PaymentGateway {
	if cfg.Gateway.AccessToken == "" {
		slog.Warn("MERCADO_PAGO_TOKEN is not set; gateway calls will be rejected")
	}
	return services.NewMercadoPagoClient(cfg.Gateway.AccessToken, cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
}

func providePaymentRepo(db *gorm.DB) repositories.PaymentRepository {
	return repositories.NewPaymentRepository(db)
}

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanServiceInterface {
	return services.NewPlanService(planRepo)
}

func providePaymentService(
	db *gorm.DB,
	gateway services.PaymentGateway,
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	plans services.PlanServiceInterface,
	store mem.IdempotencyStore,
) services.PaymentServiceInterface {
	return services.NewPaymentService(db, gateway, payments, users, plans, store)
}
