package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	mem "listaai/pkg/memcache"
	"listaai/pkg/metrics"
	"listaai/pkg/utils"
)

const (
	idempotencyTTL = 24 * time.Hour

	gatewayTimeLayout = "2006-01-02T15:04:05.000-07:00"
)

// ChargeInput describes a PIX charge and how it is recorded locally.
type ChargeInput struct {
	Amount            float64
	Description       string
	Payer             request_models.Payer
	UserID            string
	Purpose           db_models.PaymentPurpose
	PlanCode          string
	IdempotencyKey    string
	ExternalReference string
	// ExpiresAt makes the gateway refuse the charge after this instant.
	ExpiresAt         *time.Time
}

type PaymentServiceInterface interface {
	// CreatePix serves the legacy /pix endpoint.
	CreatePix(ctx context.Context, request request_models.PixPaymentRequest, idempotencyKey string) (*response_models.PixPaymentResponse, error)
	CreateCharge(ctx context.Context, input ChargeInput) (*response_models.GatewayPayment, error)
	VerifyPayment(ctx context.Context, paymentID string) (*response_models.VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, request request_models.WebhookRequest) error
}

type paymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	plans    PlanServiceInterface
	store    mem.IdempotencyStore
	now      func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	gateway PaymentGateway,
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	plans PlanServiceInterface,
	store mem.IdempotencyStore,
) PaymentServiceInterface {
	return &paymentService{
		db:       db,
		gateway:  gateway,
		payments: payments,
		users:    users,
		plans:    plans,
		store:    store,
		now:      time.Now,
	}
}

// MapPaymentStatus translates a gateway status into the approval flag and a
// user facing message. Only "approved" counts as approved.
func MapPaymentStatus(status string) (bool, string) {
	switch db_models.PaymentStatus(status) {
	case db_models.PaymentApproved:
		return true, "Pagamento aprovado"
	case db_models.PaymentPending:
		return false, "Pagamento pendente"
	case db_models.PaymentInProcess:
		return false, "Pagamento em análise"
	case db_models.PaymentRejected:
		return false, "Pagamento recusado"
	case db_models.PaymentRefunded:
		return false, "Pagamento estornado"
	case db_models.PaymentCancelled:
		return false, "Pagamento cancelado"
	case db_models.PaymentInMediation:
		return false, "Pagamento em disputa"
	case db_models.PaymentChargedBack:
		return false, "Pagamento contestado (chargeback)"
	default:
		return false, "Status desconhecido: " + status
	}
}

// CreatePix charges the plan price when a plan is named and ignores the
// amount the client sent. Charges without a plan grant nothing.
func (p *paymentService) CreatePix(ctx context.Context, request request_models.PixPaymentRequest, idempotencyKey string) (*response_models.PixPaymentResponse, error) {
	input := ChargeInput{
		Amount:         request.TransactionAmount,
		Description:    request.Description,
		Payer:          request.Payer,
		UserID:         request.UserID,
		Purpose:        db_models.PurposeOther,
		IdempotencyKey: idempotencyKey,
	}
	if request.PlanID != "" {
		plan, err := p.plans.GetPlan(ctx, request.PlanID)
		if err != nil {
			return nil, err
		}
		input.Amount = plan.Price
		input.Purpose = db_models.PurposeSubscription
		input.PlanCode = plan.Code
	}

	payment, err := p.CreateCharge(ctx, input)
	if err != nil {
		return nil, err
	}

	return &response_models.PixPaymentResponse{
		Success:            true,
		Result:             payment,
		PointOfInteraction: payment.PointOfInteraction,
	}, nil
}

func (p *paymentService) CreateCharge(ctx context.Context, input ChargeInput) (*response_models.GatewayPayment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: transaction_amount must be positive", utils.ErrInvalidInput)
	}
	if input.UserID == "" {
		input.UserID = db_models.AnonymousUser
	}

	if input.IdempotencyKey != "" {
		cached, err := p.cachedCharge(ctx, input.IdempotencyKey)
		if err != nil {
			slog.Warn("idempotency lookup failed", "error", err)
		}
		if cached != nil {
			metrics.IdempotencyHits.WithLabelValues(p.store.Driver()).Inc()
			if err := p.record(ctx, cached, input); err != nil {
				return nil, err
			}
			return cached, nil
		}
	}

	payer := input.Payer
	if payer.FirstName == "" {
		payer.FirstName = payer.Name
	}
	charge := ChargeRequest{
		TransactionAmount: utils.RoundCents(input.Amount),
		Description:       input.Description,
		PaymentMethodID:   "pix",
		ExternalReference: input.ExternalReference,
		Payer:             payer,
	}
	if input.ExpiresAt != nil {
		charge.DateOfExpiration = input.ExpiresAt.Format(gatewayTimeLayout)
	}
	payment, err := p.gateway.CreatePayment(ctx, charge, input.IdempotencyKey)
	if err != nil {
		slog.Warn("gateway charge failed", "error", err)
		return nil, err
	}

	if input.IdempotencyKey != "" {
		if raw, err := json.Marshal(payment); err == nil {
			if err := p.store.Set(ctx, input.IdempotencyKey, string(raw), idempotencyTTL); err != nil {
				slog.Warn("idempotency store failed", "error", err)
			}
		}
	}

	if err := p.record(ctx, payment, input); err != nil {
		return nil, err
	}
	slog.Info("pix charge created", "payment_id", payment.ID, "purpose", input.Purpose, "amount", input.Amount)
	return payment, nil
}

func (p *paymentService) cachedCharge(ctx context.Context, key string) (*response_models.GatewayPayment, error) {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var payment response_models.GatewayPayment
	if err := json.Unmarshal([]byte(raw), &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// record inserts the local payment row unless it already exists.
func (p *paymentService) record(ctx context.Context, payment *response_models.GatewayPayment, input ChargeInput) error {
	if payment.ID == 0 {
		return nil
	}
	paymentID := strconv.FormatInt(payment.ID, 10)

	existing, err := p.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil
	}

	status := payment.Status
	if status == "" {
		status = string(db_models.PaymentPending)
	}
	row := &db_models.Payment{
		PaymentID:      paymentID,
		UserID:         input.UserID,
		Amount:         utils.RoundCents(input.Amount),
		Description:    input.Description,
		Status:         db_models.PaymentStatus(status),
		Purpose:        input.Purpose,
		PlanCode:       input.PlanCode,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       datatypes.JSON(payment.Raw),
	}
	if err := p.payments.Insert(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (p *paymentService) VerifyPayment(ctx context.Context, paymentID string) (*response_models.VerifyPaymentResponse, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, utils.ErrPaymentNotFound
	}

	local, err := p.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if local == nil {
		return nil, utils.ErrPaymentNotFound
	}

	gp, err := p.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	approved, message := MapPaymentStatus(gp.Status)
	metrics.PaymentStatus.WithLabelValues(gp.Status).Inc()

	grant, err := p.subscriptionGrant(ctx, local, approved)
	if err != nil {
		return nil, err
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := p.payments.WithTx(tx).SetStatus(ctx, paymentID, db_models.PaymentStatus(gp.Status), datatypes.JSON(gp.Raw))
		if err != nil {
			return err
		}
		if !changed || grant == nil {
			return nil
		}
		_, err = grantSubscription(ctx, p.users.WithTx(tx), grant.userID, grant.plan, p.now())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &response_models.VerifyPaymentResponse{
		Status:   gp.Status,
		Approved: approved,
		Message:  message,
		Data:     gp,
	}, nil
}

type pendingGrant struct {
	userID uint
	plan   *db_models.Plan
}

// subscriptionGrant resolves who gets a subscription if this verification
// turns out to be the transition into approved. Only subscription payments
// of at least the plan price for a known user grant anything.
func (p *paymentService) subscriptionGrant(ctx context.Context, payment *db_models.Payment, approved bool) (*pendingGrant, error) {
	if !approved || payment.Purpose != db_models.PurposeSubscription || payment.Status == db_models.PaymentApproved {
		return nil, nil
	}
	if payment.PlanCode == "" {
		slog.Warn("subscription payment without plan", "payment_id", payment.PaymentID)
		return nil, nil
	}
	userID, ok := utils.ParseID(payment.UserID)
	if !ok {
		slog.Info("approved payment without user", "payment_id", payment.PaymentID, "user_id", payment.UserID)
		return nil, nil
	}

	plan, err := p.plans.GetPlan(ctx, payment.PlanCode)
	if errors.Is(err, utils.ErrPlanNotFound) {
		slog.Warn("approved payment for unknown plan", "payment_id", payment.PaymentID, "plan", payment.PlanCode)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if toCents(payment.Amount) < toCents(plan.Price) {
		slog.Warn("payment below plan price", "payment_id", payment.PaymentID, "amount", payment.Amount, "price", plan.Price)
		return nil, nil
	}
	return &pendingGrant{userID: userID, plan: plan}, nil
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// webhookPaymentID extracts the payment id of a payment notification.
func webhookPaymentID(request request_models.WebhookRequest) (string, bool) {
	isPayment := request.Type == "payment" || strings.HasPrefix(request.Action, "payment.")
	if !isPayment || request.Data.ID == "" {
		return "", false
	}
	return request.Data.ID, true
}

func (p *paymentService) HandleWebhook(ctx context.Context, request request_models.WebhookRequest) error {
	paymentID, ok := webhookPaymentID(request)
	if !ok {
		slog.Debug("webhook ignored", "type", request.Type, "action", request.Action)
		return nil
	}
	_, err := p.VerifyPayment(ctx, paymentID)
	return err
}
