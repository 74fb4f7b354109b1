package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/pkg/utils"
)

func strPtr(s string) *string { return &s }

func TestListService_CreateGetAndSummaries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, itemID := h.listWithItem(t)

	got, err := h.lists.GetList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, "Chá de casa nova", got.Title)
	assert.Equal(t, db_models.DefaultAccentColor, got.Style.AccentColor)
	assert.Equal(t, db_models.DefaultItemSpacing, got.Style.ItemSpacing)

	_, err = h.items.ClaimItem(ctx, listID, itemID, "Pedro", "11999990000")
	require.NoError(t, err)
	_, err = h.items.CreateItem(ctx, ownerID, listID, request_models.CreateItemRequest{Name: "Panela"})
	require.NoError(t, err)

	summaries, err := h.lists.GetListsByUser(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].ItemCount)
	assert.Equal(t, int64(1), summaries[0].ClaimedCount)

	exists, err := h.lists.ListExists(ctx, listID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = h.lists.GetList(ctx, 424242)
	assert.ErrorIs(t, err, utils.ErrListNotFound)
}

func TestListService_UpdateChecksOwnerAndMergesStyle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, _ := h.listWithItem(t)
	strangerID := h.register(t, "Intrusa", "stranger@example.com")

	_, err := h.lists.UpdateList(ctx, strangerID, listID, request_models.UpdateListRequest{Title: strPtr("hack")})
	assert.ErrorIs(t, err, utils.ErrForbidden)

	updated, err := h.lists.UpdateList(ctx, ownerID, listID, request_models.UpdateListRequest{
		Title: strPtr("Casamento"),
		Style: &request_models.StyleRequest{AccentColor: strPtr("#ff0066")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Casamento", updated.Title)
	assert.Equal(t, "#ff0066", updated.Style.AccentColor)
	assert.Equal(t, db_models.DefaultBackgroundColor, updated.Style.BackgroundColor)

	_, err = h.lists.UpdateList(ctx, ownerID, listID, request_models.UpdateListRequest{Title: strPtr("  ")})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestListService_DeleteCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, _ := h.listWithItem(t)

	require.NoError(t, h.lists.DeleteList(ctx, ownerID, listID))

	exists, err := h.lists.ListExists(ctx, listID)
	require.NoError(t, err)
	assert.False(t, exists)

	items, err := h.items.GetItems(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, h.lists.DeleteList(ctx, ownerID, listID), utils.ErrListNotFound)
}

func TestListService_UploadListImage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, _ := h.listWithItem(t)

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	resp, err := h.lists.UploadListImage(ctx, ownerID, listID, "foto.PNG", int64(len(png)), bytes.NewReader(png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Image, "/uploads/lists/"))
	assert.True(t, strings.HasSuffix(resp.Image, ".png"))

	stored := filepath.Join(h.disk.Root(), strings.TrimPrefix(resp.Image, "/uploads/"))
	_, err = os.Stat(stored)
	assert.NoError(t, err)

	list, err := h.lists.GetList(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, resp.Image, list.Image)

	_, err = h.lists.UploadListImage(ctx, ownerID, listID, "notes.txt", 11, strings.NewReader("hello world"))
	assert.ErrorIs(t, err, utils.ErrInvalidImage)

	_, err = h.lists.UploadListImage(ctx, ownerID, listID, "big.png", MaxImageBytes+1, bytes.NewReader(png))
	assert.ErrorIs(t, err, utils.ErrInvalidImage)
}

func TestItemService_ClaimAndUnclaim(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, itemID := h.listWithItem(t)

	claimed, err := h.items.ClaimItem(ctx, listID, itemID, "Pedro", "11999990000")
	require.NoError(t, err)
	assert.True(t, claimed.Claimed)
	require.NotNil(t, claimed.ClaimedBy)
	assert.Equal(t, "Pedro", claimed.ClaimedBy.Name)

	_, err = h.items.ClaimItem(ctx, listID, itemID, "Outra", "")
	assert.ErrorIs(t, err, utils.ErrItemAlreadyClaimed)

	_, err = h.items.ClaimItem(ctx, listID, 999, "Outra", "")
	assert.ErrorIs(t, err, utils.ErrItemNotFound)

	no := false
	released, err := h.items.UpdateItem(ctx, ownerID, listID, itemID, request_models.UpdateItemRequest{Claimed: &no})
	require.NoError(t, err)
	assert.False(t, released.Claimed)
	assert.Nil(t, released.ClaimedBy)
}

func TestItemService_OwnerOnlyMutations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ownerID, listID, itemID := h.listWithItem(t)
	strangerID := h.register(t, "Intrusa", "stranger@example.com")

	_, err := h.items.CreateItem(ctx, strangerID, listID, request_models.CreateItemRequest{Name: "x"})
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.ErrorIs(t, h.items.DeleteItem(ctx, strangerID, listID, itemID), utils.ErrForbidden)

	renamed, err := h.items.UpdateItem(ctx, ownerID, listID, itemID, request_models.UpdateItemRequest{Name: strPtr("Batedeira")})
	require.NoError(t, err)
	assert.Equal(t, "Batedeira", renamed.Name)

	require.NoError(t, h.items.DeleteItem(ctx, ownerID, listID, itemID))
	items, err := h.items.GetItems(ctx, listID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
