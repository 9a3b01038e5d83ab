package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/margenes-api/internal/application/dto"
	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para el catálogo de artículos. Los costos no
// viven aquí: se derivan del historial de compras al costear cada venta.
type ItemUseCase struct {
	repo           repository.ItemRepository
	defaultVATRate decimal.Decimal
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, defaultVATRate decimal.Decimal) *ItemUseCase {
	return &ItemUseCase{repo: repo, defaultVATRate: defaultVATRate}
}

// Create crea un artículo nuevo. El SKU es único en el catálogo.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	vatRate := uc.defaultVATRate
	if in.VATRate != nil {
		if in.VATRate.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return nil, domain.ErrInvalidInput
		}
		vatRate = *in.VATRate
	}
	if in.Weight != nil && in.Weight.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Description: in.Description,
		Brand:       in.Brand,
		Supplier:    in.Supplier,
		Colour:      in.Colour,
		Size:        in.Size,
		Weight:      in.Weight,
		VATRate:     vatRate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// GetBySKU obtiene un artículo por SKU.
func (uc *ItemUseCase) GetBySKU(sku string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza un artículo. El SKU es inmutable: cambiarlo rompería el
// vínculo con el historial de compras y los snapshots de ventas.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Supplier != nil {
		item.Supplier = *in.Supplier
	}
	if in.Colour != nil {
		item.Colour = *in.Colour
	}
	if in.Size != nil {
		item.Size = *in.Size
	}
	if in.Weight != nil {
		if in.Weight.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Weight = in.Weight
	}
	if in.VATRate != nil {
		if in.VATRate.LessThanOrEqual(decimal.NewFromInt(-100)) {
			return nil, domain.ErrInvalidInput
		}
		item.VATRate = *in.VATRate
	}
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(limit, offset int) (*dto.ItemListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un artículo por ID.
func (uc *ItemUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	if i == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          i.ID,
		SKU:         i.SKU,
		Description: i.Description,
		Brand:       i.Brand,
		Supplier:    i.Supplier,
		Colour:      i.Colour,
		Size:        i.Size,
		Weight:      i.Weight,
		VATRate:     i.VATRate,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
