package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/services"
	"listaai/pkg/utils"
)

type ListController struct {
	listService services.ListServiceInterface
}

func NewListController(listService services.ListServiceInterface) *ListController {
	return &ListController{
		listService: listService,
	}
}

// GetUserLists godoc
// @Summary Lists owned by a user
// @Tags Lists
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /server/users/{userId}/lists [get]
func (l *ListController) GetUserLists(c *gin.Context) {
	userID, ok := pathID(c, "userId", utils.ErrUserNotFound)
	if !ok {
		return
	}

	lists, err := l.listService.GetListsByUser(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, lists, "")
}

// CreateList godoc
// @Summary Create a list for a user
// @Tags Lists
// @Accept json
// @Produce json
// @Param userId path int true "User ID"
// @Param request body request_models.CreateListRequest true "List payload"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /server/users/{userId}/lists [post]
func (l *ListController) CreateList(c *gin.Context) {
	userID, ok := pathID(c, "userId", utils.ErrUserNotFound)
	if !ok {
		return
	}

	var req request_models.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Title is required")
		return
	}

	list, err := l.listService.CreateList(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, list, "List created successfully")
}

// GetList godoc
// @Summary Public view of a list with its style
// @Tags Lists
// @Produce json
// @Param listId path int true "List ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /server/lists/{listId} [get]
func (l *ListController) GetList(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}

	list, err := l.listService.GetList(c.Request.Context(), listID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "")
}

func (l *ListController) ListExists(c *gin.Context) {
	listID, ok := utils.ParseID(c.Param("listId"))
	if !ok {
		utils.RespondSuccess(c, response_models.ExistsResponse{Exists: false}, "")
		return
	}

	exists, err := l.listService.ListExists(c.Request.Context(), listID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.ExistsResponse{Exists: exists}, "")
}

// UpdateList godoc
// @Summary Partially update a list and its style
// @Tags Lists
// @Accept json
// @Produce json
// @Param listId path int true "List ID"
// @Param request body request_models.UpdateListRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /server/lists/{listId} [put]
func (l *ListController) UpdateList(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	var req request_models.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	list, err := l.listService.UpdateList(c.Request.Context(), ownerID, listID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, list, "List updated successfully")
}

func (l *ListController) DeleteList(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	if err := l.listService.DeleteList(c.Request.Context(), ownerID, listID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SuccessResponse{Success: true}, "List deleted successfully")
}

// UploadImage godoc
// @Summary Upload a cover image for a list
// @Tags Lists
// @Accept multipart/form-data
// @Produce json
// @Param listId path int true "List ID"
// @Param image formData file true "Image up to 5MB"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /server/lists/{listId}/image [post]
func (l *ListController) UploadImage(c *gin.Context) {
	listID, ok := pathID(c, "listId", utils.ErrListNotFound)
	if !ok {
		return
	}
	ownerID, _ := currentUserID(c)

	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "could not read image")
		return
	}
	defer file.Close()

	resp, err := l.listService.UploadListImage(c.Request.Context(), ownerID, listID, header.Filename, header.Size, file)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Image uploaded successfully")
}
