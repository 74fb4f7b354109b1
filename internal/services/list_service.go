package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/pkg/storage"
	"listaai/pkg/utils"
)

const MaxImageBytes = 5 << 20

type ListServiceInterface interface {
	GetListsByUser(ctx context.Context, userID uint) ([]response_models.ListSummaryResponse, error)
	CreateList(ctx context.Context, userID uint, request request_models.CreateListRequest) (*response_models.CreatedListResponse, error)
	GetList(ctx context.Context, listID uint) (*response_models.ListResponse, error)
	ListExists(ctx context.Context, listID uint) (bool, error)
	UpdateList(ctx context.Context, ownerID, listID uint, request request_models.UpdateListRequest) (*response_models.ListResponse, error)
	DeleteList(ctx context.Context, ownerID, listID uint) error
	UploadListImage(ctx context.Context, ownerID, listID uint, filename string, size int64, r io.Reader) (*response_models.ImageResponse, error)
	// EnsureOwner loads the list and checks it belongs to ownerID.
	EnsureOwner(ctx context.Context, ownerID, listID uint) (*db_models.List, error)
}

type ListService struct {
	listRepo repositories.ListRepository
	disk     storage.Disk
}

func NewListService(listRepo repositories.ListRepository, disk storage.Disk) ListServiceInterface {
	return &ListService{
		listRepo: listRepo,
		disk:     disk,
	}
}

func (l *ListService) GetListsByUser(ctx context.Context, userID uint) ([]response_models.ListSummaryResponse, error) {
	rows, err := l.listRepo.FindSummariesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	result := make([]response_models.ListSummaryResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, response_models.ListSummaryResponse{
			ID:           formatID(row.ID),
			Title:        row.Title,
			Description:  row.Description,
			ItemCount:    row.ItemCount,
			ClaimedCount: row.ClaimedCount,
			CreatedAt:    row.CreatedAt,
			Image:        row.Image,
		})
	}
	return result, nil
}

func (l *ListService) CreateList(ctx context.Context, userID uint, request request_models.CreateListRequest) (*response_models.CreatedListResponse, error) {
	title := strings.TrimSpace(request.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrInvalidInput)
	}

	list := &db_models.List{
		UserID:      userID,
		Title:       title,
		Description: request.Description,
	}
	if err := l.listRepo.Insert(ctx, list, db_models.DefaultListStyle(0)); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &response_models.CreatedListResponse{
		ID:          formatID(list.ID),
		Title:       list.Title,
		Description: list.Description,
	}, nil
}

func (l *ListService) GetList(ctx context.Context, listID uint) (*response_models.ListResponse, error) {
	list, err := l.listRepo.FindById(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if list == nil {
		return nil, utils.ErrListNotFound
	}
	return l.withStyle(ctx, list)
}

func (l *ListService) ListExists(ctx context.Context, listID uint) (bool, error) {
	exists, err := l.listRepo.Exists(ctx, listID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return exists, nil
}

func (l *ListService) EnsureOwner(ctx context.Context, ownerID, listID uint) (*db_models.List, error) {
	list, err := l.listRepo.FindById(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if list == nil {
		return nil, utils.ErrListNotFound
	}
	if list.UserID != ownerID {
		return nil, utils.ErrForbidden
	}
	return list, nil
}

func (l *ListService) UpdateList(ctx context.Context, ownerID, listID uint, request request_models.UpdateListRequest) (*response_models.ListResponse, error) {
	if _, err := l.EnsureOwner(ctx, ownerID, listID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", utils.ErrInvalidInput)
		}
		fields["title"] = title
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}
	if request.Image != nil {
		fields["image"] = *request.Image
	}
	if err := l.listRepo.Update(ctx, listID, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	if request.Style != nil {
		if err := l.listRepo.UpsertStyle(ctx, listID, styleFields(request.Style)); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
	}

	return l.GetList(ctx, listID)
}

func (l *ListService) DeleteList(ctx context.Context, ownerID, listID uint) error {
	if _, err := l.EnsureOwner(ctx, ownerID, listID); err != nil {
		return err
	}
	if err := l.listRepo.Delete(ctx, listID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	slog.Info("list deleted", "list_id", listID, "user_id", ownerID)
	return nil
}

func (l *ListService) UploadListImage(ctx context.Context, ownerID, listID uint, filename string, size int64, r io.Reader) (*response_models.ImageResponse, error) {
	if _, err := l.EnsureOwner(ctx, ownerID, listID); err != nil {
		return nil, err
	}
	if size > MaxImageBytes {
		return nil, fmt.Errorf("%w: image must be at most 5MB", utils.ErrInvalidImage)
	}

	br := bufio.NewReaderSize(io.LimitReader(r, MaxImageBytes+1), 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: file must be an image", utils.ErrInvalidImage)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image must be at most 5MB", utils.ErrInvalidImage)
	}

	key := fmt.Sprintf("lists/%d/%s%s", listID, uuid.New().String(), imageExt(filename, contentType))
	if err := l.disk.Put(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	url := l.disk.URL(key)
	if err := l.listRepo.Update(ctx, listID, map[string]interface{}{"image": url}); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &response_models.ImageResponse{Image: url}, nil
}

func imageExt(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func (l *ListService) withStyle(ctx context.Context, list *db_models.List) (*response_models.ListResponse, error) {
	style, err := l.listRepo.FindStyle(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return &response_models.ListResponse{
		ID:          formatID(list.ID),
		Title:       list.Title,
		Description: list.Description,
		Image:       list.Image,
		CreatedAt:   list.CreatedAt,
		UserID:      formatID(list.UserID),
		Style:       toStyleResponse(style.WithDefaults()),
	}, nil
}

func toStyleResponse(s db_models.ListStyle) response_models.StyleResponse {
	return response_models.StyleResponse{
		BackgroundColor:   s.BackgroundColor,
		AccentColor:       s.AccentColor,
		FontFamily:        s.FontFamily,
		BorderRadius:      s.BorderRadius,
		ItemSpacing:       s.ItemSpacing,
		BackgroundImage:   s.BackgroundImage,
		BackgroundPattern: s.BackgroundPattern,
		TitleColor:        s.TitleColor,
		TextColor:         s.TextColor,
	}
}

func styleFields(s *request_models.StyleRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	set("background_color", s.BackgroundColor)
	set("accent_color", s.AccentColor)
	set("font_family", s.FontFamily)
	set("border_radius", s.BorderRadius)
	set("item_spacing", s.ItemSpacing)
	set("background_image", s.BackgroundImage)
	set("background_pattern", s.BackgroundPattern)
	set("title_color", s.TitleColor)
	set("text_color", s.TextColor)
	return fields
}
