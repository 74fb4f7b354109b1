package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/services"
	"listaai/pkg/utils"
)

type ItemController struct {
	itemService services.ItemServiceInterface
}

func NewItemController(itemService services.ItemServiceInterface) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

func (i *ItemController) GetItems(c *gin.Context) {
	listID, ok := utils.ParseID(c.Param("listId"))
	if !ok {
		utils.RespondSuccess(c, []response_models.ItemResponse{}, "")
		return
	}

	items, err := i.itemService.GetItems(c.Request.Context(), listID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "")
}

func (i *ItemController) CreateItem(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	var req request_models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name is required")
		return
	}

	item, err := i.itemService.CreateItem(c.Request.Context(), ownerID, listID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, item, "Item created successfully")
}

func (i *ItemController) UpdateItem(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId", utils.ErrItemNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	var req request_models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := i.itemService.UpdateItem(c.Request.Context(), ownerID, listID, itemID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, item, "Item updated successfully")
}

func (i *ItemController) DeleteItem(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId", utils.ErrItemNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	if err := i.itemService.DeleteItem(c.Request.Context(), ownerID, listID, itemID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SuccessResponse{Success: true}, "Item deleted successfully")
}

// ClaimItem godoc
// @Summary Reserve an item without payment
// @Tags Items
// @Accept json
// @Produce json
// @Param listId path int true "List ID"
// @Param itemId path int true "Item ID"
// @Param request body request_models.ClaimItemRequest true "Claimer"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /server/lists/{listId}/items/{itemId}/claim [post]
func (i *ItemController) ClaimItem(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId", utils.ErrItemNotFound)
	if !ok {
		return
	}

	var req request_models.ClaimItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name is required")
		return
	}

	item, err := i.itemService.ClaimItem(c.Request.Context(), listID, itemID, req.Name, req.Phone)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, item, "Item claimed successfully")
}
