package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/pkg/metrics"
	"listaai/pkg/utils"
)

const (
	checkoutBatchSize = 50
	expiredMessage    = "Pagamento expirado"
)

type CheckoutOptions struct {
	ClaimAmount float64
	TTL         time.Duration
	CloseAfter  time.Duration
	AppBaseURL  string
}

type CheckoutServiceInterface interface {
	Start(ctx context.Context, request request_models.StartCheckoutRequest) (*response_models.CheckoutResponse, error)
	Get(ctx context.Context, id string) (*response_models.CheckoutResponse, error)
	Verify(ctx context.Context, id string) (*response_models.CheckoutResponse, error)
	Pay(ctx context.Context, id string, request request_models.PayCheckoutRequest) (*response_models.CheckoutResponse, error)
	Retry(ctx context.Context, id string) (*response_models.CheckoutResponse, error)
	// PollOnce verifies every checkout waiting for payment and returns how
	// many were looked at.
	PollOnce(ctx context.Context) (int, error)
	// ExpireStale asks the gateway one last time about checkouts past their
	// expiry and fails those still unpaid.
	ExpireStale(ctx context.Context) (int, error)
	// HandleWebhook advances the checkout that owns the notified payment.
	HandleWebhook(ctx context.Context, request request_models.WebhookRequest) error
}

type checkoutService struct {
	checkouts repositories.CheckoutRepository
	lists     repositories.ListRepository
	items     repositories.ItemRepository
	users     repositories.UserRepository
	plans     PlanServiceInterface
	payments  PaymentServiceInterface
	mailer    IMailService
	validate  *validator.Validate
	opts      CheckoutOptions
	now       func() time.Time
}

func NewCheckoutService(
	checkouts repositories.CheckoutRepository,
	lists repositories.ListRepository,
	items repositories.ItemRepository,
	users repositories.UserRepository,
	plans PlanServiceInterface,
	payments PaymentServiceInterface,
	mailer IMailService,
	opts CheckoutOptions,
) CheckoutServiceInterface {
	v := validator.New()
	if err := utils.RegisterValidators(v); err != nil {
		panic(err)
	}
	if opts.CloseAfter <= 0 {
		opts.CloseAfter = 2 * time.Second
	}
	return &checkoutService{
		checkouts: checkouts,
		lists:     lists,
		items:     items,
		users:     users,
		plans:     plans,
		payments:  payments,
		mailer:    mailer,
		validate:  v,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type payerForm struct {
	Name     string `validate:"min=2"`
	Email    string `validate:"required,email"`
	Document string `validate:"mindigits=11"`
}

var payerMessages = map[string]string{
	"Name":     "Nome precisa ter pelo menos 2 caracteres",
	"Email":    "Insira um email válido",
	"Document": "CPF precisa ter 11 números",
	"Phone":    "Telefone precisa ter pelo menos 8 números",
}

func (s *checkoutService) validatePayer(kind db_models.CheckoutKind, payer request_models.CheckoutPayer) error {
	form := payerForm{
		Name:     strings.TrimSpace(payer.Name),
		Email:    strings.TrimSpace(payer.Email),
		Document: payer.Document,
	}
	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", utils.ErrInvalidCheckoutRequest, payerMessages[verrs[0].Field()])
		}
		return fmt.Errorf("%w: %v", utils.ErrInvalidCheckoutRequest, err)
	}
	if kind == db_models.CheckoutClaim {
		if err := s.validate.Var(payer.Phone, "mindigits=8"); err != nil {
			return fmt.Errorf("%w: %s", utils.ErrInvalidCheckoutRequest, payerMessages["Phone"])
		}
	}
	return nil
}

func (s *checkoutService) Start(ctx context.Context, request request_models.StartCheckoutRequest) (*response_models.CheckoutResponse, error) {
	kind := db_models.CheckoutKind(request.Kind)
	if kind != db_models.CheckoutClaim && kind != db_models.CheckoutSubscription {
		return nil, fmt.Errorf("%w: unknown checkout kind %q", utils.ErrInvalidCheckoutRequest, request.Kind)
	}
	if err := s.validatePayer(kind, request.Payer); err != nil {
		return nil, err
	}

	checkout := &db_models.Checkout{
		Kind:          kind,
		Step:          db_models.StepForm,
		PayerName:     strings.TrimSpace(request.Payer.Name),
		PayerEmail:    strings.ToLower(strings.TrimSpace(request.Payer.Email)),
		PayerDocument: utils.OnlyDigits(request.Payer.Document),
		PayerPhone:    strings.TrimSpace(request.Payer.Phone),
	}

	switch kind {
	case db_models.CheckoutClaim:
		listID, ok := utils.ParseID(request.ListID)
		if !ok {
			return nil, utils.ErrListNotFound
		}
		itemID, ok := utils.ParseID(request.ItemID)
		if !ok {
			return nil, utils.ErrItemNotFound
		}
		item, err := s.items.FindInList(ctx, listID, itemID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if item == nil {
			return nil, utils.ErrItemNotFound
		}
		if item.Claimed {
			return nil, utils.ErrItemAlreadyClaimed
		}
		checkout.ListID = &listID
		checkout.ItemID = &itemID
		checkout.Amount = utils.RoundCents(s.opts.ClaimAmount)
	case db_models.CheckoutSubscription:
		if request.PlanID == "" {
			return nil, fmt.Errorf("%w: planId is required", utils.ErrInvalidCheckoutRequest)
		}
		plan, err := s.plans.GetPlan(ctx, request.PlanID)
		if err != nil {
			return nil, err
		}
		checkout.PlanCode = plan.Code
		checkout.Amount = utils.RoundCents(plan.Price)
		if request.UserID != "" {
			userID, ok := utils.ParseID(request.UserID)
			if !ok {
				return nil, utils.ErrUserNotFound
			}
			checkout.UserID = &userID
		}
	}

	if err := s.checkouts.Insert(ctx, checkout); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	slog.Info("checkout started", "checkout_id", checkout.ID, "kind", kind)

	return s.charge(ctx, checkout)
}

func (s *checkoutService) Get(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	checkout, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(checkout), nil
}

func (s *checkoutService) Pay(ctx context.Context, id string, request request_models.PayCheckoutRequest) (*response_models.CheckoutResponse, error) {
	checkout, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkout.Step != db_models.StepForm {
		return nil, transitionError(checkout.Step, "pay")
	}

	if request.Payer != nil {
		if err := s.validatePayer(checkout.Kind, *request.Payer); err != nil {
			return nil, err
		}
		checkout.PayerName = strings.TrimSpace(request.Payer.Name)
		checkout.PayerEmail = strings.ToLower(strings.TrimSpace(request.Payer.Email))
		checkout.PayerDocument = utils.OnlyDigits(request.Payer.Document)
		checkout.PayerPhone = strings.TrimSpace(request.Payer.Phone)
	}
	return s.charge(ctx, checkout)
}

// charge moves a form checkout to payment, or to error when the gateway
// refuses the charge.
func (s *checkoutService) charge(ctx context.Context, checkout *db_models.Checkout) (*response_models.CheckoutResponse, error) {
	checkout.Attempt++
	expires := s.now().Add(s.opts.TTL)

	input := ChargeInput{
		Amount:            checkout.Amount,
		Description:       s.chargeDescription(checkout),
		IdempotencyKey:    checkout.IdempotencyKey(),
		ExternalReference: checkout.ID,
		Payer: request_models.Payer{
			Name:  checkout.PayerName,
			Email: checkout.PayerEmail,
			Identification: request_models.PayerIdentification{
				Type:   "CPF",
				Number: checkout.PayerDocument,
			},
		},
	}
	if s.opts.TTL > 0 {
		input.ExpiresAt = &expires
	}
	if checkout.Kind == db_models.CheckoutClaim {
		input.Purpose = db_models.PurposeClaim
	} else {
		input.Purpose = db_models.PurposeSubscription
		input.PlanCode = checkout.PlanCode
		if checkout.UserID != nil {
			input.UserID = formatID(*checkout.UserID)
		}
	}

	fields := map[string]interface{}{
		"attempt":        checkout.Attempt,
		"payer_name":     checkout.PayerName,
		"payer_email":    checkout.PayerEmail,
		"payer_document": checkout.PayerDocument,
		"payer_phone":    checkout.PayerPhone,
	}

	payment, err := s.payments.CreateCharge(ctx, input)
	if err != nil {
		slog.Warn("checkout charge failed", "checkout_id", checkout.ID, "error", err)
		fields["step"] = db_models.StepError
		fields["message"] = "Não foi possível gerar o pagamento"
		fields["last_error"] = err.Error()
		return s.transition(ctx, checkout, db_models.StepForm, fields)
	}

	fields["step"] = db_models.StepPayment
	fields["payment_id"] = strconv.FormatInt(payment.ID, 10)
	fields["gateway_status"] = payment.Status
	fields["last_error"] = ""
	_, fields["message"] = MapPaymentStatus(payment.Status)
	if s.opts.TTL > 0 {
		fields["expires_at"] = expires
	}
	if poi := payment.PointOfInteraction; poi != nil {
		fields["qr_code"] = poi.TransactionData.QRCode
		fields["qr_code_base64"] = poi.TransactionData.QRCodeBase64
		fields["ticket_url"] = poi.TransactionData.TicketURL
	}
	return s.transition(ctx, checkout, db_models.StepForm, fields)
}

func (s *checkoutService) Verify(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	checkout, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch checkout.Step {
	case db_models.StepSuccess, db_models.StepError:
		return s.toResponse(checkout), nil
	case db_models.StepForm:
		return nil, transitionError(checkout.Step, "verify")
	}

	result, err := s.payments.VerifyPayment(ctx, checkout.PaymentID)
	if err != nil {
		return nil, err
	}

	switch db_models.PaymentStatus(result.Status) {
	case db_models.PaymentApproved:
		return s.finalize(ctx, checkout, result)
	case db_models.PaymentRejected, db_models.PaymentCancelled, db_models.PaymentRefunded, db_models.PaymentChargedBack:
		return s.transition(ctx, checkout, db_models.StepPayment, map[string]interface{}{
			"step":           db_models.StepError,
			"gateway_status": result.Status,
			"message":        result.Message,
		})
	}

	if result.Status != checkout.GatewayStatus {
		if _, err := s.checkouts.Transition(ctx, checkout.ID, db_models.StepPayment, map[string]interface{}{
			"gateway_status": result.Status,
			"message":        result.Message,
		}); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		checkout.GatewayStatus = result.Status
		checkout.Message = result.Message
	}
	return s.toResponse(checkout), nil
}

// finalize claims the success transition first so concurrent verifiers run
// the finalizer at most once.
func (s *checkoutService) finalize(ctx context.Context, checkout *db_models.Checkout, result *response_models.VerifyPaymentResponse) (*response_models.CheckoutResponse, error) {
	now := s.now()
	won, err := s.checkouts.Transition(ctx, checkout.ID, db_models.StepPayment, map[string]interface{}{
		"step":           db_models.StepSuccess,
		"gateway_status": result.Status,
		"message":        result.Message,
		"finalized_at":   now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !won {
		return s.Get(ctx, checkout.ID)
	}
	metrics.CheckoutTransitions.WithLabelValues(string(checkout.Kind), string(db_models.StepSuccess)).Inc()
	checkout.Step = db_models.StepSuccess
	checkout.FinalizedAt = &now

	var finErr error
	switch checkout.Kind {
	case db_models.CheckoutClaim:
		finErr = s.finalizeClaim(ctx, checkout)
	case db_models.CheckoutSubscription:
		finErr = s.finalizeSubscription(ctx, checkout)
	}
	if finErr != nil {
		slog.Error("checkout finalizer failed", "checkout_id", checkout.ID, "error", finErr)
		msg := "Pagamento aprovado, mas não foi possível concluir a operação"
		if errors.Is(finErr, utils.ErrItemAlreadyClaimed) {
			msg = "Este item já foi reservado por outra pessoa"
		}
		return s.transition(ctx, checkout, db_models.StepSuccess, map[string]interface{}{
			"step":       db_models.StepError,
			"message":    msg,
			"last_error": finErr.Error(),
		})
	}

	return s.Get(ctx, checkout.ID)
}

func (s *checkoutService) finalizeClaim(ctx context.Context, checkout *db_models.Checkout) error {
	if checkout.ListID == nil || checkout.ItemID == nil {
		return utils.ErrItemNotFound
	}
	claimed, err := s.items.Claim(ctx, *checkout.ListID, *checkout.ItemID, checkout.PayerName, checkout.PayerPhone)
	if err != nil {
		return err
	}
	if !claimed {
		return utils.ErrItemAlreadyClaimed
	}

	item, err := s.items.FindInList(ctx, *checkout.ListID, *checkout.ItemID)
	if err != nil || item == nil {
		return err
	}
	list, err := s.lists.FindById(ctx, *checkout.ListID)
	if err != nil || list == nil {
		return err
	}
	owner, err := s.users.FindById(ctx, list.UserID)
	if err != nil || owner == nil {
		return err
	}

	listURL := strings.TrimRight(s.opts.AppBaseURL, "/") + "/list/" + formatID(list.ID)
	if err := s.mailer.SendClaimNotification(owner.Email, owner.Name, list.Title, item.Name, checkout.PayerName, listURL); err != nil {
		slog.Warn("claim notification failed", "checkout_id", checkout.ID, "error", err)
	}
	return nil
}

// finalizeSubscription only notifies: the grant itself happens when the
// payment row first turns approved.
func (s *checkoutService) finalizeSubscription(ctx context.Context, checkout *db_models.Checkout) error {
	planName := checkout.PlanCode
	if plan, err := s.plans.GetPlan(ctx, checkout.PlanCode); err == nil {
		planName = plan.Name
	}

	to, name := checkout.PayerEmail, checkout.PayerName
	expiry := s.now()
	if checkout.UserID != nil {
		user, err := s.users.FindById(ctx, *checkout.UserID)
		if err != nil {
			return err
		}
		if user != nil {
			to, name = user.Email, user.Name
			if user.SubscriptionExpiry != nil {
				expiry = *user.SubscriptionExpiry
			}
		}
	}

	if err := s.mailer.SendSubscriptionConfirmation(to, name, planName, expiry); err != nil {
		slog.Warn("subscription confirmation failed", "checkout_id", checkout.ID, "error", err)
	}
	return nil
}

func (s *checkoutService) Retry(ctx context.Context, id string) (*response_models.CheckoutResponse, error) {
	checkout, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if checkout.Step != db_models.StepError {
		return nil, transitionError(checkout.Step, "retry")
	}

	return s.transition(ctx, checkout, db_models.StepError, map[string]interface{}{
		"step":           db_models.StepForm,
		"payment_id":     "",
		"qr_code":        "",
		"qr_code_base64": "",
		"ticket_url":     "",
		"gateway_status": "",
		"message":        "",
		"last_error":     "",
		"expires_at":     nil,
		"finalized_at":   nil,
	})
}

func (s *checkoutService) PollOnce(ctx context.Context) (int, error) {
	pending, err := s.checkouts.FindAwaitingPayment(ctx, checkoutBatchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	for _, c := range pending {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if _, err := s.Verify(ctx, c.ID); err != nil {
			slog.Warn("checkout poll failed", "checkout_id", c.ID, "error", err)
		}
	}
	return len(pending), nil
}

func (s *checkoutService) ExpireStale(ctx context.Context) (int, error) {
	expired, err := s.checkouts.FindExpired(ctx, s.now(), checkoutBatchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	n := 0
	for i := range expired {
		// a payment approved just before the expiry still wins
		current, err := s.Verify(ctx, expired[i].ID)
		if err != nil {
			slog.Warn("final verify before expiry failed", "checkout_id", expired[i].ID, "error", err)
			continue
		}
		if current.Step != string(db_models.StepPayment) {
			continue
		}

		resp, err := s.transition(ctx, &expired[i], db_models.StepPayment, map[string]interface{}{
			"step":    db_models.StepError,
			"message": expiredMessage,
		})
		if err != nil {
			return n, err
		}
		if resp.Step == string(db_models.StepError) {
			n++
		}
	}
	if n > 0 {
		slog.Info("checkouts expired", "count", n)
	}
	return n, nil
}

func (s *checkoutService) HandleWebhook(ctx context.Context, request request_models.WebhookRequest) error {
	paymentID, ok := webhookPaymentID(request)
	if !ok {
		return s.payments.HandleWebhook(ctx, request)
	}
	checkout, err := s.checkouts.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if checkout == nil || checkout.Step != db_models.StepPayment {
		return s.payments.HandleWebhook(ctx, request)
	}

	resp, err := s.Verify(ctx, checkout.ID)
	if err != nil {
		return err
	}
	slog.Info("checkout notified", "checkout_id", checkout.ID, "payment_id", paymentID, "step", resp.Step)
	return nil
}

func (s *checkoutService) load(ctx context.Context, id string) (*db_models.Checkout, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, utils.ErrCheckoutNotFound
	}
	checkout, err := s.checkouts.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if checkout == nil {
		return nil, utils.ErrCheckoutNotFound
	}
	return checkout, nil
}

// transition applies fields if the checkout is still in from and returns the
// stored state either way.
func (s *checkoutService) transition(ctx context.Context, checkout *db_models.Checkout, from db_models.CheckoutStep, fields map[string]interface{}) (*response_models.CheckoutResponse, error) {
	ok, err := s.checkouts.Transition(ctx, checkout.ID, from, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if ok {
		if to, has := fields["step"].(db_models.CheckoutStep); has && to != from {
			metrics.CheckoutTransitions.WithLabelValues(string(checkout.Kind), string(to)).Inc()
			slog.Info("checkout transition", "checkout_id", checkout.ID, "from", from, "to", to)
		}
	}
	return s.Get(ctx, checkout.ID)
}

func (s *checkoutService) chargeDescription(checkout *db_models.Checkout) string {
	if checkout.Kind == db_models.CheckoutSubscription {
		return "ListaAi assinatura " + checkout.PlanCode
	}
	return "ListaAi reserva de item"
}

func (s *checkoutService) toResponse(c *db_models.Checkout) *response_models.CheckoutResponse {
	resp := &response_models.CheckoutResponse{
		ID:            c.ID,
		Kind:          string(c.Kind),
		Step:          string(c.Step),
		PlanID:        c.PlanCode,
		PayerName:     c.PayerName,
		PayerEmail:    c.PayerEmail,
		Amount:        c.Amount,
		PaymentID:     c.PaymentID,
		QRCode:        c.QRCode,
		QRCodeBase64:  c.QRCodeBase64,
		TicketURL:     c.TicketURL,
		GatewayStatus: c.GatewayStatus,
		Message:       c.Message,
		Error:         c.LastError,
		ExpiresAt:     c.ExpiresAt,
		FinalizedAt:   c.FinalizedAt,
	}
	if c.ListID != nil {
		resp.ListID = formatID(*c.ListID)
	}
	if c.ItemID != nil {
		resp.ItemID = formatID(*c.ItemID)
	}
	if c.UserID != nil {
		resp.UserID = formatID(*c.UserID)
	}
	if c.Step == db_models.StepSuccess {
		resp.CloseAfterMs = s.opts.CloseAfter.Milliseconds()
	}
	return resp
}

func transitionError(step db_models.CheckoutStep, op string) error {
	return fmt.Errorf("%w: cannot %s a checkout in step %s", utils.ErrInvalidCheckoutTransition, op, step)
}
