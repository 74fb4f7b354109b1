package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listaai/internal/models/request_models"
	"listaai/pkg/utils"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.users.Register(ctx, request_models.SignUpRequest{
		Name: "Maria", Email: "Maria@Example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", resp.User.Email)

	_, err = h.users.Register(ctx, request_models.SignUpRequest{
		Name: "Outra", Email: "maria@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	login, err := h.users.Login(ctx, request_models.LoginRequest{Email: "MARIA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.False(t, login.User.HasSubscription)

	_, err = h.users.Login(ctx, request_models.LoginRequest{Email: "maria@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = h.users.Login(ctx, request_models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestUserService_PasswordIsHashed(t *testing.T) {
	h := newHarness(t)
	id := h.register(t, "Joao", "joao@example.com")

	user, err := h.userRepo.FindById(context.Background(), id)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(user.PasswordHash, "secret123"))
}

func TestUserService_MeAndGrantSubscription(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.register(t, "Joao", "joao@example.com")

	weekly, err := h.plans.GetPlan(ctx, "weekly")
	require.NoError(t, err)

	first, err := h.users.GrantSubscription(ctx, id, weekly)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), first, time.Minute)

	// a second grant stacks on the remaining period
	second, err := h.users.GrantSubscription(ctx, id, weekly)
	require.NoError(t, err)
	assert.WithinDuration(t, first.AddDate(0, 0, 7), second, time.Second)

	me, err := h.users.Me(ctx, id)
	require.NoError(t, err)
	assert.True(t, me.HasSubscription)
	require.NotNil(t, me.SubscriptionExpiry)

	_, err = h.users.Me(ctx, 9999)
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
	_, err = h.users.GrantSubscription(ctx, 9999, nil)
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}

func TestPlanService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	plans, err := h.plans.GetPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	byID := map[string]float64{}
	for _, p := range plans {
		byID[p.ID] = p.Amount
	}
	assert.Equal(t, 30.00, byID["weekly"])
	assert.Equal(t, 90.00, byID["monthly"])

	_, err = h.plans.GetPlan(ctx, "lifetime")
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
}
