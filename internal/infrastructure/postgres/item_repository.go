package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/margenes-api/internal/domain"
	"github.com/jhoicas/margenes-api/internal/domain/entity"
	"github.com/jhoicas/margenes-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, description, brand, supplier, colour, size, weight, vat_rate, is_active, created_at, updated_at`

// Create persiste un nuevo artículo. SKU duplicado → domain.ErrDuplicate.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Description, item.Brand, item.Supplier,
		item.Colour, item.Size, item.Weight, item.VATRate, item.IsActive,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetBySKU obtiene un artículo por SKU.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	return r.getOne(`SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
}

func (r *ItemRepo) getOne(query string, arg any) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&it.ID, &it.SKU, &it.Description, &it.Brand, &it.Supplier,
		&it.Colour, &it.Size, &it.Weight, &it.VATRate, &it.IsActive,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Update actualiza un artículo existente. El SKU no se modifica: las líneas
// históricas lo referencian por snapshot.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET description = $2, brand = $3, supplier = $4, colour = $5, size = $6, weight = $7, vat_rate = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Description, item.Brand, item.Supplier, item.Colour,
		item.Size, item.Weight, item.VATRate, item.IsActive, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista artículos con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY sku LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.SKU, &it.Description, &it.Brand, &it.Supplier,
			&it.Colour, &it.Size, &it.Weight, &it.VATRate, &it.IsActive,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
