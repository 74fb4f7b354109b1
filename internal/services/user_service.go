package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/pkg/utils"
)

const defaultSubscriptionDays = 30

type UserServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	Me(ctx context.Context, userID uint) (*response_models.UserProfileResponse, error)
	// GrantSubscription extends the subscription by the plan period (30 days
	// when plan is nil) counted from the later of now and the current expiry.
	GrantSubscription(ctx context.Context, userID uint, plan *db_models.Plan) (time.Time, error)
}

type UserService struct {
	userRepo repositories.UserRepository
	jwt      *utils.JWTManager
	now      func() time.Time
}

func NewUserService(userRepo repositories.UserRepository, jwt *utils.JWTManager) UserServiceInterface {
	return &UserService{
		userRepo: userRepo,
		jwt:      jwt,
		now:      time.Now,
	}
}

func (u *UserService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &db_models.User{
		Name:         strings.TrimSpace(request.Name),
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := u.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &response_models.RegisterResponse{User: toUserResponse(user)}, nil
}

func (u *UserService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := u.jwt.CreateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &response_models.LoginResponse{
		User:  u.toProfile(user),
		Token: token,
	}, nil
}

func (u *UserService) Me(ctx context.Context, userID uint) (*response_models.UserProfileResponse, error) {
	user, err := u.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	profile := u.toProfile(user)
	return &profile, nil
}

func (u *UserService) GrantSubscription(ctx context.Context, userID uint, plan *db_models.Plan) (time.Time, error) {
	expiry, err := grantSubscription(ctx, u.userRepo, userID, plan, u.now())
	if err != nil {
		return time.Time{}, err
	}
	if expiry == nil {
		return time.Time{}, utils.ErrUserNotFound
	}
	return *expiry, nil
}

// grantSubscription returns nil when the user does not exist.
func grantSubscription(ctx context.Context, users repositories.UserRepository, userID uint, plan *db_models.Plan, now time.Time) (*time.Time, error) {
	user, err := users.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, nil
	}

	start := utils.ExtendFrom(now, user.SubscriptionExpiry)
	var expiry time.Time
	if plan != nil {
		expiry = utils.AddPeriod(start, string(plan.Period), plan.PeriodCount)
	} else {
		expiry = start.AddDate(0, 0, defaultSubscriptionDays)
	}

	if err := users.UpdateSubscription(ctx, userID, true, &expiry); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	slog.Info("subscription granted", "user_id", userID, "expiry", expiry)
	return &expiry, nil
}

func (u *UserService) toProfile(user *db_models.User) response_models.UserProfileResponse {
	return response_models.UserProfileResponse{
		ID:                 formatID(user.ID),
		Name:               user.Name,
		Email:              user.Email,
		HasSubscription:    user.SubscriptionActive(u.now()),
		SubscriptionExpiry: user.SubscriptionExpiry,
	}
}

func toUserResponse(user *db_models.User) response_models.UserResponse {
	return response_models.UserResponse{
		ID:    formatID(user.ID),
		Name:  user.Name,
		Email: user.Email,
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
