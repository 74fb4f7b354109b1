package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"listaai/internal/config"
	"listaai/internal/infra"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	mem "listaai/pkg/memcache"
	"listaai/pkg/storage"
	"listaai/pkg/utils"
)

type fakeGateway struct {
	mu        sync.Mutex
	nextID    int64
	statuses  map[string]string
	creates   []ChargeRequest
	keys      []string
	createErr error
	getErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextID: 1000, statuses: map[string]string{}}
}

func (g *fakeGateway) CreatePayment(_ context.Context, req ChargeRequest, key string) (*response_models.GatewayPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	g.creates = append(g.creates, req)
	g.keys = append(g.keys, key)
	id := strconv.FormatInt(g.nextID, 10)
	g.statuses[id] = "pending"
	return &response_models.GatewayPayment{
		ID:                g.nextID,
		Status:            "pending",
		TransactionAmount: req.TransactionAmount,
		PointOfInteraction: &response_models.PointOfInteraction{
			TransactionData: response_models.TransactionData{
				QRCode:       "00020126-" + id,
				QRCodeBase64: "iVBORw0KGgo=",
				TicketURL:    "https://mp.test/ticket/" + id,
			},
		},
		Raw: []byte(fmt.Sprintf(`{"id":%s,"status":"pending"}`, id)),
	}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, id string) (*response_models.GatewayPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return nil, g.getErr
	}
	status, ok := g.statuses[id]
	if !ok {
		return nil, &GatewayError{StatusCode: 404, Message: "Payment not found"}
	}
	n, _ := strconv.ParseInt(id, 10, 64)
	return &response_models.GatewayPayment{
		ID:     n,
		Status: status,
		Raw:    []byte(fmt.Sprintf(`{"id":%s,"status":%q}`, id, status)),
	}, nil
}

func (g *fakeGateway) set(id, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[id] = status
}

func (g *fakeGateway) createCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.creates)
}

type sentMail struct {
	kind string
	to   string
	args []string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendClaimNotification(to, ownerName, listTitle, itemName, claimerName, listURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "claim", to: to, args: []string{ownerName, listTitle, itemName, claimerName, listURL}})
	return nil
}

func (m *fakeMailer) SendSubscriptionConfirmation(to, name, planName string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: "subscription", to: to, args: []string{name, planName}})
	return nil
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type harness struct {
	db       *gorm.DB
	gateway  *fakeGateway
	mailer   *fakeMailer
	store    *mem.MemoryStore
	disk     *storage.LocalDisk
	userRepo repositories.UserRepository
	payRepo  repositories.PaymentRepository
	users    UserServiceInterface
	plans    PlanServiceInterface
	lists    ListServiceInterface
	items    ItemServiceInterface
	payments PaymentServiceInterface
	checkout CheckoutServiceInterface
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := infra.OpenTestDB(t)
	require.NoError(t, infra.Seed(db, config.AdminConfig{Email: "admin@admin.com", Password: "admin123"}))

	disk, err := storage.NewLocalDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	h := &harness{
		db:       db,
		gateway:  newFakeGateway(),
		mailer:   &fakeMailer{},
		store:    mem.NewMemoryStore(),
		disk:     disk,
		userRepo: repositories.NewUserRepository(db),
		payRepo:  repositories.NewPaymentRepository(db),
	}
	listRepo := repositories.NewListRepository(db)
	itemRepo := repositories.NewItemRepository(db)

	h.users = NewUserService(h.userRepo, utils.NewJWTManager("test-secret", time.Hour))
	h.plans = NewPlanService(repositories.NewPlanRepository(db))
	h.lists = NewListService(listRepo, disk)
	h.items = NewItemService(itemRepo, h.lists)
	h.payments = NewPaymentService(db, h.gateway, h.payRepo, h.userRepo, h.plans, h.store)
	h.checkout = NewCheckoutService(
		repositories.NewCheckoutRepository(db),
		listRepo, itemRepo, h.userRepo,
		h.plans, h.payments, h.mailer,
		CheckoutOptions{
			ClaimAmount: 0.01,
			TTL:         30 * time.Minute,
			CloseAfter:  2 * time.Second,
			AppBaseURL:  "https://listaai.test",
		},
	)
	return h
}

func (h *harness) register(t *testing.T, name, email string) uint {
	t.Helper()
	resp, err := h.users.Register(context.Background(), request_models.SignUpRequest{
		Name: name, Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	id, ok := utils.ParseID(resp.User.ID)
	require.True(t, ok)
	return id
}

// listWithItem creates a list owned by a fresh user and one unclaimed item in it.
func (h *harness) listWithItem(t *testing.T) (ownerID, listID, itemID uint) {
	t.Helper()
	ctx := context.Background()
	ownerID = h.register(t, "Dona Lista", "owner@example.com")

	list, err := h.lists.CreateList(ctx, ownerID, request_models.CreateListRequest{Title: "Chá de casa nova"})
	require.NoError(t, err)
	listID, _ = utils.ParseID(list.ID)

	item, err := h.items.CreateItem(ctx, ownerID, listID, request_models.CreateItemRequest{Name: "Liquidificador"})
	require.NoError(t, err)
	itemID, _ = utils.ParseID(item.ID)
	return ownerID, listID, itemID
}
