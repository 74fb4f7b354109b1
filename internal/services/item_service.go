package services

import (
	"context"
	"fmt"
	"strings"

	"listaai/internal/models/db_models"
	"listaai/internal/models/request_models"
	"listaai/internal/models/response_models"
	"listaai/internal/repositories"
	"listaai/pkg/utils"
)

type ItemServiceInterface interface {
	GetItems(ctx context.Context, listID uint) ([]response_models.ItemResponse, error)
	CreateItem(ctx context.Context, ownerID, listID uint, request request_models.CreateItemRequest) (*response_models.ItemResponse, error)
	UpdateItem(ctx context.Context, ownerID, listID, itemID uint, request request_models.UpdateItemRequest) (*response_models.ItemResponse, error)
	DeleteItem(ctx context.Context, ownerID, listID, itemID uint) error
	// ClaimItem is one-way: a claimed item can only be released by the owner
	// through UpdateItem.
	ClaimItem(ctx context.Context, listID, itemID uint, name, phone string) (*response_models.ItemResponse, error)
}

type ItemService struct {
	itemRepo repositories.ItemRepository
	lists    ListServiceInterface
}

func NewItemService(itemRepo repositories.ItemRepository, lists ListServiceInterface) ItemServiceInterface {
	return &ItemService{
		itemRepo: itemRepo,
		lists:    lists,
	}
}

func (i *ItemService) GetItems(ctx context.Context, listID uint) ([]response_models.ItemResponse, error) {
	items, err := i.itemRepo.FindByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	result := make([]response_models.ItemResponse, 0, len(items))
	for idx := range items {
		result = append(result, toItemResponse(&items[idx]))
	}
	return result, nil
}

func (i *ItemService) CreateItem(ctx context.Context, ownerID, listID uint, request request_models.CreateItemRequest) (*response_models.ItemResponse, error) {
	if _, err := i.lists.EnsureOwner(ctx, ownerID, listID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}

	item := &db_models.Item{
		ListID:      listID,
		Name:        name,
		Description: request.Description,
	}
	if err := i.itemRepo.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	resp := toItemResponse(item)
	return &resp, nil
}

func (i *ItemService) UpdateItem(ctx context.Context, ownerID, listID, itemID uint, request request_models.UpdateItemRequest) (*response_models.ItemResponse, error) {
	if _, err := i.lists.EnsureOwner(ctx, ownerID, listID); err != nil {
		return nil, err
	}
	if err := i.ensureItem(ctx, listID, itemID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", utils.ErrInvalidInput)
		}
		fields["name"] = name
	}
	if request.Description != nil {
		fields["description"] = *request.Description
	}
	if request.Claimed != nil {
		fields["claimed"] = *request.Claimed
		if !*request.Claimed {
			fields["claimed_by_name"] = ""
			fields["claimed_by_phone"] = ""
		}
	}
	if err := i.itemRepo.Update(ctx, listID, itemID, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return i.load(ctx, listID, itemID)
}

func (i *ItemService) DeleteItem(ctx context.Context, ownerID, listID, itemID uint) error {
	if _, err := i.lists.EnsureOwner(ctx, ownerID, listID); err != nil {
		return err
	}
	if err := i.itemRepo.Delete(ctx, listID, itemID); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func (i *ItemService) ClaimItem(ctx context.Context, listID, itemID uint, name, phone string) (*response_models.ItemResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}

	claimed, err := i.itemRepo.Claim(ctx, listID, itemID, name, strings.TrimSpace(phone))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !claimed {
		if err := i.ensureItem(ctx, listID, itemID); err != nil {
			return nil, err
		}
		return nil, utils.ErrItemAlreadyClaimed
	}

	return i.load(ctx, listID, itemID)
}

func (i *ItemService) ensureItem(ctx context.Context, listID, itemID uint) error {
	item, err := i.itemRepo.FindInList(ctx, listID, itemID)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if item == nil {
		return utils.ErrItemNotFound
	}
	return nil
}

func (i *ItemService) load(ctx context.Context, listID, itemID uint) (*response_models.ItemResponse, error) {
	item, err := i.itemRepo.FindInList(ctx, listID, itemID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if item == nil {
		return nil, utils.ErrItemNotFound
	}
	resp := toItemResponse(item)
	return &resp, nil
}

func toItemResponse(item *db_models.Item) response_models.ItemResponse {
	resp := response_models.ItemResponse{
		ID:          formatID(item.ID),
		Name:        item.Name,
		Description: item.Description,
		Claimed:     item.Claimed,
	}
	if item.Claimed && item.ClaimedByName != "" {
		resp.ClaimedBy = &response_models.ClaimedBy{
			Name:  item.ClaimedByName,
			Phone: item.ClaimedByPhone,
		}
	}
	return resp
}
