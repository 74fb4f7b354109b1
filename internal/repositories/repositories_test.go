package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"listaai/internal/infra"
	"listaai/internal/models/db_models"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *db_models.User {
	t.Helper()
	user := &db_models.User{Name: "Ana", Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).Insert(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	db := infra.OpenTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "ana@example.com")
	assert.NotZero(t, user.ID)

	found, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, repo.Insert(ctx, &db_models.User{Name: "B", Email: "ana@example.com", PasswordHash: "x"}))

	expiry := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateSubscription(ctx, user.ID, true, &expiry))
	found, err = repo.FindById(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, found.HasSubscription)
	require.NotNil(t, found.SubscriptionExpiry)
	assert.True(t, found.SubscriptionExpiry.Equal(expiry))
}

func TestListRepository_SummariesAndDelete(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	lists := NewListRepository(db)
	items := NewItemRepository(db)
	user := seedUser(t, db, "owner@example.com")

	first := &db_models.List{UserID: user.ID, Title: "Aniversário"}
	require.NoError(t, lists.Insert(ctx, first, db_models.DefaultListStyle(0)))
	second := &db_models.List{UserID: user.ID, Title: "Casamento"}
	require.NoError(t, lists.Insert(ctx, second, db_models.DefaultListStyle(0)))

	for _, name := range []string{"Panela", "Copo", "Prato"} {
		require.NoError(t, items.Insert(ctx, &db_models.Item{ListID: first.ID, Name: name}))
	}
	all, err := items.FindByList(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Panela", all[0].Name)

	ok, err := items.Claim(ctx, first.ID, all[0].ID, "Bia", "11999999999")
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := lists.FindSummariesByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID, "newest first")
	assert.Equal(t, int64(3), rows[1].ItemCount)
	assert.Equal(t, int64(1), rows[1].ClaimedCount)
	assert.Equal(t, int64(0), rows[0].ItemCount)

	style, err := lists.FindStyle(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, style)
	assert.Equal(t, db_models.DefaultAccentColor, style.AccentColor)

	require.NoError(t, lists.Delete(ctx, first.ID))
	exists, err := lists.Exists(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	remaining, err := items.FindByList(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	style, err = lists.FindStyle(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, style)
}

func TestListRepository_UpsertStyle(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	lists := NewListRepository(db)
	user := seedUser(t, db, "style@example.com")

	list := &db_models.List{UserID: user.ID, Title: "Chá de bebê"}
	require.NoError(t, lists.Insert(ctx, list, db_models.DefaultListStyle(0)))
	require.NoError(t, db.Where("list_id = ?", list.ID).Delete(&db_models.ListStyle{}).Error)

	require.NoError(t, lists.UpsertStyle(ctx, list.ID, map[string]interface{}{"accent_color": "#ff0000"}))
	style, err := lists.FindStyle(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, style)
	assert.Equal(t, "#ff0000", style.AccentColor)
	assert.Equal(t, db_models.DefaultBackgroundColor, style.BackgroundColor)

	require.NoError(t, lists.UpsertStyle(ctx, list.ID, map[string]interface{}{"title_color": "#111111"}))
	var count int64
	require.NoError(t, db.Model(&db_models.ListStyle{}).Where("list_id = ?", list.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestItemRepository_ClaimOnlyOnce(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "claim@example.com")
	list := &db_models.List{UserID: user.ID, Title: "Lista"}
	require.NoError(t, NewListRepository(db).Insert(ctx, list, db_models.DefaultListStyle(0)))

	items := NewItemRepository(db)
	item := &db_models.Item{ListID: list.ID, Name: "Liquidificador"}
	require.NoError(t, items.Insert(ctx, item))

	ok, err := items.Claim(ctx, list.ID, item.ID, "Bia", "1199")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = items.Claim(ctx, list.ID, item.ID, "Caio", "1188")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = items.Claim(ctx, list.ID+100, item.ID, "Caio", "1188")
	require.NoError(t, err)
	assert.False(t, ok, "items are scoped by list")

	got, err := items.FindInList(ctx, list.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bia", got.ClaimedByName)
}

func TestPaymentRepository_SetStatus(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	repo := NewPaymentRepository(db)

	require.NoError(t, repo.Insert(ctx, &db_models.Payment{
		PaymentID: "123",
		UserID:    db_models.AnonymousUser,
		Amount:    30,
		Status:    db_models.PaymentPending,
		Purpose:   db_models.PurposeSubscription,
	}))

	changed, err := repo.SetStatus(ctx, "123", db_models.PaymentApproved, datatypes.JSON(`{"id":123,"status":"approved"}`))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetStatus(ctx, "123", db_models.PaymentApproved, nil)
	require.NoError(t, err)
	assert.False(t, changed)

	p, err := repo.FindByPaymentID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, db_models.PaymentApproved, p.Status)
	assert.JSONEq(t, `{"id":123,"status":"approved"}`, string(p.Metadata))

	missing, err := repo.FindByPaymentID(ctx, "999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCheckoutRepository_Transition(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	repo := NewCheckoutRepository(db)

	past := time.Now().UTC().Add(-time.Minute)
	c := &db_models.Checkout{Kind: db_models.CheckoutClaim, Step: db_models.StepPayment, ExpiresAt: &past}
	require.NoError(t, repo.Insert(ctx, c))
	assert.Len(t, c.ID, 36)

	pending, err := repo.FindAwaitingPayment(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	expired, err := repo.FindExpired(ctx, time.Now().UTC(), 10)
	require.NoError(t, err)
	assert.Len(t, expired, 1)

	ok, err := repo.Transition(ctx, c.ID, db_models.StepPayment, map[string]interface{}{"step": db_models.StepSuccess})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, c.ID, db_models.StepPayment, map[string]interface{}{"step": db_models.StepError})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.FindById(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.StepSuccess, got.Step)
}

func TestCheckoutRepository_FindByPaymentID(t *testing.T) {
	db := infra.OpenTestDB(t)
	ctx := context.Background()
	repo := NewCheckoutRepository(db)

	c := &db_models.Checkout{Kind: db_models.CheckoutClaim, Step: db_models.StepPayment, PaymentID: "5001"}
	require.NoError(t, repo.Insert(ctx, c))

	got, err := repo.FindByPaymentID(ctx, "5001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)

	missing, err := repo.FindByPaymentID(ctx, "5002")
	require.NoError(t, err)
	assert.Nil(t, missing)

	empty, err := repo.FindByPaymentID(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
