package services

import (
	"context"
	"fmt"

	"listaai/internal/models/db_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.PlanResponse, error)
	GetPlan(ctx context.Context, code string) (*db_models.Plan, error)
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPlans(ctx context.Context) ([]response_models.PlanResponse, error) {
	plans, err := p.planRepo.GetActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	result := make([]response_models.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		result = append(result, response_models.PlanResponse{
			ID:          plan.Code,
			Name:        plan.Name,
			Description: plan.Description,
			Amount:      plan.Price,
			Currency:    plan.Currency,
			Period:      string(plan.Period),
			PeriodCount: plan.PeriodCount,
		})
	}
	return result, nil
}

func (p *PlanService) GetPlan(ctx context.Context, code string) (*db_models.Plan, error) {
	plan, err := p.planRepo.GetPlanByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}
