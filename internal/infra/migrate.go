package infra

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"listaai/internal/config"
	"listaai/internal/models/db_models"
	"listaai/pkg/utils"
)

func Models() []interface{} {
	return []interface{}{
		&db_models.User{},
		&db_models.List{},
		&db_models.Item{},
		&db_models.ListStyle{},
		&db_models.Plan{},
		&db_models.Payment{},
		&db_models.Checkout{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

var DefaultPlans = []db_models.Plan{
	{Code: "weekly", Name: "Semanal", Description: "Acesso por 1 semana", Period: db_models.PeriodWeek, PeriodCount: 1, Price: 30.00, Currency: "BRL", IsActive: true},
	{Code: "monthly", Name: "Mensal", Description: "Acesso por 1 mês", Period: db_models.PeriodMonth, PeriodCount: 1, Price: 90.00, Currency: "BRL", IsActive: true},
}

// Seed inserts the default plans and the admin account when missing.
// Existing rows are left untouched.
func Seed(db *gorm.DB, admin config.AdminConfig) error {
	for _, p := range DefaultPlans {
		plan := p
		if err := db.Where("code = ?", plan.Code).FirstOrCreate(&plan).Error; err != nil {
			return fmt.Errorf("seed plan %s: %w", plan.Code, err)
		}
	}

	if admin.Email == "" {
		return nil
	}
	var existing db_models.User
	err := db.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		slog.Info("admin user already exists", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := db_models.User{
		Name:            "Administrador",
		Email:           admin.Email,
		PasswordHash:    hash,
		HasSubscription: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("default admin user created", "email", admin.Email)
	return nil
}
