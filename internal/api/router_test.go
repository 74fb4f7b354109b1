package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listaai/internal/api/controllers"
	"listaai/internal/config"
	"listaai/internal/infra"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/internal/services"
	mem "listaai/pkg/memcache"
	"listaai/pkg/middleware"
	"listaai/pkg/storage"
	"listaai/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct {
	next atomic.Int64
}

func (g *stubGateway) CreatePayment(_ context.Context, req services.ChargeRequest, _ string) (*response_models.GatewayPayment, error) {
	id := g.next.Add(1)
	return &response_models.GatewayPayment{
		ID:                id,
		Status:            "pending",
		TransactionAmount: req.TransactionAmount,
		PointOfInteraction: &response_models.PointOfInteraction{
			TransactionData: response_models.TransactionData{QRCode: "000201", QRCodeBase64: "iVBOR"},
		},
	}, nil
}

func (g *stubGateway) GetPayment(_ context.Context, id string) (*response_models.GatewayPayment, error) {
	n, _ := strconv.ParseInt(id, 10, 64)
	return &response_models.GatewayPayment{ID: n, Status: "pending"}, nil
}

type noopMailer struct{}

func (noopMailer) SendClaimNotification(to, ownerName, listTitle, itemName, claimerName, listURL string) error {
	return nil
}

func (noopMailer) SendSubscriptionConfirmation(to, name, planName string, expiry time.Time) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := infra.OpenTestDB(t)
	require.NoError(t, infra.Seed(db, config.AdminConfig{}))

	cfg := config.FromEnv()
	cfg.Storage = config.StorageConfig{Driver: "local", LocalRoot: t.TempDir(), PublicURL: "/uploads"}
	disk, err := storage.NewLocalDisk(cfg.Storage.LocalRoot, cfg.Storage.PublicURL)
	require.NoError(t, err)

	jwt := utils.NewJWTManager("router-secret", time.Hour)
	userRepo := repositories.NewUserRepository(db)
	listRepo := repositories.NewListRepository(db)
	itemRepo := repositories.NewItemRepository(db)

	users := services.NewUserService(userRepo, jwt)
	plans := services.NewPlanService(repositories.NewPlanRepository(db))
	lists := services.NewListService(listRepo, disk)
	items := services.NewItemService(itemRepo, lists)
	payments := services.NewPaymentService(db, &stubGateway{}, repositories.NewPaymentRepository(db), userRepo, plans, mem.NewMemoryStore())
	checkouts := services.NewCheckoutService(repositories.NewCheckoutRepository(db), listRepo, itemRepo, userRepo,
		plans, payments, noopMailer{}, services.CheckoutOptions{ClaimAmount: 0.01, TTL: time.Minute})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg, jwt, middleware.NewRateLimiter(1000, 1000), logger, Handlers{
		Users:     controllers.NewUserController(users),
		Lists:     controllers.NewListController(lists),
		Items:     controllers.NewItemController(items),
		Payments:  controllers.NewPaymentController(payments, plans, checkouts),
		Checkouts: controllers.NewCheckoutController(checkouts),
	})
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func signUp(t *testing.T, r *gin.Engine, name, email string) (string, string) {
	t.Helper()
	w, _ := call(t, r, http.MethodPost, "/server/users", "", gin.H{"name": name, "email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := call(t, r, http.MethodPost, "/server/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login response_models.LoginResponse
	decode(t, env.Data, &login)
	return login.User.ID, login.Token
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t)

	w, _ := call(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ListaAi API is running", w.Body.String())

	w, env := call(t, r, http.MethodGet, "/server/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, env.TraceID)

	w, _ = call(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "listaai_http_requests_total")
}

func TestRouter_UsersAndAuth(t *testing.T) {
	r := newTestRouter(t)
	id, token := signUp(t, r, "Maria", "maria@example.com")

	w, env := call(t, r, http.MethodPost, "/server/users", "", gin.H{"name": "Maria", "email": "maria@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email already exists", env.Message)

	w, env = call(t, r, http.MethodPost, "/server/users/login", "", gin.H{"email": "maria@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", env.Message)

	w, env = call(t, r, http.MethodGet, "/server/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me response_models.UserProfileResponse
	decode(t, env.Data, &me)
	assert.Equal(t, id, me.ID)

	w, _ = call(t, r, http.MethodGet, "/server/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ListsAndItems(t *testing.T) {
	r := newTestRouter(t)
	ownerID, ownerToken := signUp(t, r, "Dona", "dona@example.com")
	_, otherToken := signUp(t, r, "Outra", "outra@example.com")

	w, _ := call(t, r, http.MethodPost, "/server/users/"+ownerID+"/lists", otherToken, gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := call(t, r, http.MethodPost, "/server/users/"+ownerID+"/lists", ownerToken, gin.H{"title": "Casamento", "description": "Nossa lista"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created response_models.CreatedListResponse
	decode(t, env.Data, &created)
	listPath := "/server/lists/" + created.ID

	w, env = call(t, r, http.MethodGet, listPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list response_models.ListResponse
	decode(t, env.Data, &list)
	assert.Equal(t, "Casamento", list.Title)
	assert.Equal(t, "#0078ff", list.Style.AccentColor)

	w, env = call(t, r, http.MethodGet, listPath+"/exists", "", nil)
	assert.JSONEq(t, `{"exists":true}`, string(env.Data))
	_, env = call(t, r, http.MethodGet, "/server/lists/abc/exists", "", nil)
	assert.JSONEq(t, `{"exists":false}`, string(env.Data))

	w, env = call(t, r, http.MethodGet, "/server/lists/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "List not found", env.Message)

	w, _ = call(t, r, http.MethodPut, listPath, otherToken, gin.H{"title": "hack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = call(t, r, http.MethodPost, listPath+"/items", ownerToken, gin.H{"name": "Jogo de panelas"})
	require.Equal(t, http.StatusCreated, w.Code)
	var item response_models.ItemResponse
	decode(t, env.Data, &item)
	itemPath := listPath + "/items/" + item.ID

	w, env = call(t, r, http.MethodPost, itemPath+"/claim", "", gin.H{"name": "Pedro", "phone": "11999990000"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &item)
	assert.True(t, item.Claimed)

	w, env = call(t, r, http.MethodPost, itemPath+"/claim", "", gin.H{"name": "Ana"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Item already claimed", env.Message)

	w, env = call(t, r, http.MethodGet, listPath+"/items", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []response_models.ItemResponse
	decode(t, env.Data, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Pedro", items[0].ClaimedBy.Name)

	w, env = call(t, r, http.MethodGet, "/server/users/"+ownerID+"/lists", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []response_models.ListSummaryResponse
	decode(t, env.Data, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].ClaimedCount)

	w, env = call(t, r, http.MethodDelete, itemPath, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, string(env.Data))

	w, _ = call(t, r, http.MethodDelete, listPath, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodGet, listPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_UploadImage(t *testing.T) {
	r := newTestRouter(t)
	ownerID, token := signUp(t, r, "Dona", "dona@example.com")
	_, env := call(t, r, http.MethodPost, "/server/users/"+ownerID+"/lists", token, gin.H{"title": "Fotos"})
	var created response_models.CreatedListResponse
	decode(t, env.Data, &created)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "capa.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/server/lists/"+created.ID+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	var img response_models.ImageResponse
	decode(t, body.Data, &img)

	w, _ = call(t, r, http.MethodGet, img.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_PaymentsAndCheckout(t *testing.T) {
	r := newTestRouter(t)

	w, env := call(t, r, http.MethodGet, "/server/plans", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var plans []response_models.PlanResponse
	decode(t, env.Data, &plans)
	assert.Len(t, plans, 2)

	w, _ = call(t, r, http.MethodPost, "/server/pix", "", gin.H{"transaction_amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, r, http.MethodPost, "/server/pix", "", gin.H{
		"transaction_amount": 30,
		"description":        "Assinatura",
		"paymentMethodId":    "pix",
		"payer":              gin.H{"email": "ana@example.com"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var pix response_models.PixPaymentResponse
	decode(t, env.Data, &pix)
	assert.True(t, pix.Success)
	assert.Equal(t, "000201", pix.PointOfInteraction.TransactionData.QRCode)

	w, env = call(t, r, http.MethodGet, "/server/payments/"+strconv.FormatInt(pix.Result.ID, 10), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pagamento pendente", env.Message)

	// only payments created here can be looked up
	w, _ = call(t, r, http.MethodGet, "/server/payments/987654321", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, r, http.MethodPost, "/server/payments/webhook", "", gin.H{"type": "test"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, r, http.MethodPost, "/server/checkouts", "", gin.H{
		"kind": "subscription", "planId": "weekly",
		"payer": gin.H{"name": "A", "email": "a@example.com", "document": "12345678909"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Nome precisa ter pelo menos 2 caracteres")

	w, _ = call(t, r, http.MethodPost, "/server/checkouts", "", gin.H{"kind": "gift"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, r, http.MethodPost, "/server/checkouts", "", gin.H{
		"kind": "subscription", "planId": "weekly",
		"payer": gin.H{"name": "Ana", "email": "a@example.com", "document": "123.456.789-09"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var checkout response_models.CheckoutResponse
	decode(t, env.Data, &checkout)
	assert.Equal(t, "payment", checkout.Step)

	w, env = call(t, r, http.MethodPost, "/server/checkouts/"+checkout.ID+"/verify", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env.Data, &checkout)
	assert.Equal(t, "payment", checkout.Step)

	w, _ = call(t, r, http.MethodPost, "/server/checkouts/"+checkout.ID+"/retry", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = call(t, r, http.MethodGet, "/server/checkouts/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
