package mail_fx

import (
	"go.uber.org/fx"

	"listaai/internal/config"
	"listaai/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config) services.IMailService {
	return services.NewSMTPMailService(services.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		FromName:   "ListaAi",
		RequireTLS: cfg.IsProduction(),
		AppName:    "ListaAi",
		AppBaseURL: cfg.SMTP.AppBaseURL,
	})
}
