package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const inventoryItemColumns = `
	id, name, description, category_id, sku, brand, model,
	total_quantity, available_quantity, issued_quantity, reserved_quantity,
	minimum_stock_level, reorder_point, unit_cost, unit_price, currency,
	condition, status, supplier_id, location, tags, notes, is_active,
	created_at, updated_at`

// InventoryRepository handles categories, items and stock movements
type InventoryRepository struct {
	db DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// ListCategories returns active and inactive categories in display order
func (r *InventoryRepository) ListCategories(ctx context.Context) ([]models.InventoryCategory, error) {
	query := `
		SELECT id, name, description, parent_category_id, color_code, icon_name,
		       is_active, sort_order, created_at, updated_at
		FROM inventory_categories
		ORDER BY sort_order, name`

	categories := []models.InventoryCategory{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category
func (r *InventoryRepository) CreateCategory(ctx context.Context, c *models.InventoryCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO inventory_categories (id, name, description, parent_category_id, color_code,
		                                  icon_name, is_active, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, c.ParentCategoryID, c.ColorCode, c.IconName, c.IsActive, c.SortOrder,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inventory category: %w", err)
	}
	return nil
}

// UpdateCategory overwrites a category's editable fields
func (r *InventoryRepository) UpdateCategory(ctx context.Context, c *models.InventoryCategory) error {
	query := `
		UPDATE inventory_categories
		SET name = $2, description = $3, parent_category_id = $4, color_code = $5,
		    icon_name = $6, is_active = $7, sort_order = $8, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.ParentCategoryID, c.ColorCode, c.IconName, c.IsActive, c.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory category: %w", err)
	}
	return requireAffected(result, "update inventory category")
}

// ListItems returns items matching the filter ordered by name
func (r *InventoryRepository) ListItems(ctx context.Context, filter models.InventoryItemFilter) ([]models.InventoryItem, error) {
	conditions := []string{"is_active = true"}
	var args []interface{}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id::text = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.LowStock {
		conditions = append(conditions, "available_quantity <= reorder_point")
	}

	query := `SELECT ` + inventoryItemColumns + `
		FROM inventory_items
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY name`

	items := []models.InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}

// GetItem returns one item
func (r *InventoryRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.GetContext(ctx, &item, `SELECT `+inventoryItemColumns+` FROM inventory_items WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "get inventory item")
	}
	return &item, nil
}

// CreateItem inserts an item. Its whole quantity starts as available.
func (r *InventoryRepository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO inventory_items (
			id, name, description, category_id, sku, brand, model,
			total_quantity, available_quantity, issued_quantity, reserved_quantity,
			minimum_stock_level, reorder_point, unit_cost, unit_price, currency,
			condition, status, supplier_id, location, tags, notes, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, true, NOW())
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		item.ID, item.Name, item.Description, item.CategoryID, item.SKU, item.Brand, item.Model,
		item.TotalQuantity, item.AvailableQuantity,
		item.MinimumStockLevel, item.ReorderPoint, item.UnitCost, item.UnitPrice, item.Currency,
		item.Condition, item.Status, item.SupplierID, item.Location, item.Tags, item.Notes,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	item.IsActive = true
	return nil
}

// UpdateItem overwrites descriptive fields. Quantities only change through
// stock movements.
func (r *InventoryRepository) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, description = $3, category_id = $4, sku = $5, brand = $6, model = $7,
		    minimum_stock_level = $8, reorder_point = $9, unit_cost = $10, unit_price = $11,
		    currency = $12, condition = $13, supplier_id = $14, location = $15, tags = $16,
		    notes = $17, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.CategoryID, item.SKU, item.Brand, item.Model,
		item.MinimumStockLevel, item.ReorderPoint, item.UnitCost, item.UnitPrice,
		item.Currency, item.Condition, item.SupplierID, item.Location, item.Tags,
		item.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return requireAffected(result, "update inventory item")
}

// AdjustStock changes total and available quantity by delta and records the movement
func (r *InventoryRepository) AdjustStock(ctx context.Context, itemID uuid.UUID, delta int, reason string, userID *uuid.UUID) (*models.InventoryItem, error) {
	var item *models.InventoryItem
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		locked, err := lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if locked.AvailableQuantity+delta < 0 {
			return models.ErrInsufficientStock
		}

		previous := locked.TotalQuantity
		locked.TotalQuantity += delta
		locked.AvailableQuantity += delta

		if _, err := tx.ExecContext(ctx, `
			UPDATE inventory_items
			SET total_quantity = $2, available_quantity = $3, updated_at = NOW()
			WHERE id = $1`, itemID, locked.TotalQuantity, locked.AvailableQuantity); err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}

		notes := reason
		if err := insertTransaction(ctx, tx, models.InventoryTransaction{
			ItemID:           itemID,
			TransactionType:  models.TransactionAdjusted,
			Quantity:         delta,
			PreviousQuantity: previous,
			NewQuantity:      locked.TotalQuantity,
			Notes:            &notes,
			CreatedBy:        userID,
		}); err != nil {
			return err
		}

		item = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// IssueItem moves quantity from available to issued for a property
func (r *InventoryRepository) IssueItem(ctx context.Context, itemID uuid.UUID, req models.IssueItemRequest, userID *uuid.UUID) (*models.InventoryIssuance, error) {
	issuance := &models.InventoryIssuance{
		ID:             uuid.New(),
		ItemID:         itemID,
		PropertyID:     req.PropertyID,
		QuantityIssued: req.Quantity,
		Status:         "Active",
		IssuedDate:     models.Today(),
		IssuedBy:       userID,
	}
	if req.IssuedToPerson != "" {
		issuance.IssuedToPerson = &req.IssuedToPerson
	}
	if req.Purpose != "" {
		issuance.Purpose = &req.Purpose
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		item, err := lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.AvailableQuantity < req.Quantity {
			return models.ErrInsufficientStock
		}
		issuance.Condition = item.Condition

		if _, err := tx.ExecContext(ctx, `
			UPDATE inventory_items
			SET available_quantity = available_quantity - $2,
			    issued_quantity = issued_quantity + $2,
			    updated_at = NOW()
			WHERE id = $1`, itemID, req.Quantity); err != nil {
			return fmt.Errorf("failed to issue stock: %w", err)
		}

		err = tx.QueryRowxContext(ctx, `
			INSERT INTO inventory_issuances (id, item_id, property_id, quantity_issued, status, issued_date,
			                                 issued_by, issued_to_person, condition_at_issuance, purpose, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			RETURNING created_at`,
			issuance.ID, issuance.ItemID, issuance.PropertyID, issuance.QuantityIssued, issuance.Status,
			issuance.IssuedDate, issuance.IssuedBy, issuance.IssuedToPerson, issuance.Condition, issuance.Purpose,
		).Scan(&issuance.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record issuance: %w", err)
		}

		return insertTransaction(ctx, tx, models.InventoryTransaction{
			ItemID:           itemID,
			PropertyID:       &req.PropertyID,
			TransactionType:  models.TransactionIssued,
			Quantity:         req.Quantity,
			PreviousQuantity: item.AvailableQuantity,
			NewQuantity:      item.AvailableQuantity - req.Quantity,
			Notes:            issuance.Purpose,
			CreatedBy:        userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return issuance, nil
}

// ListTransactions returns an item's stock movements, newest first
func (r *InventoryRepository) ListTransactions(ctx context.Context, itemID uuid.UUID) ([]models.InventoryTransaction, error) {
	query := `
		SELECT id, item_id, property_id, transaction_type, quantity, previous_quantity,
		       new_quantity, notes, created_by, created_at
		FROM inventory_transactions
		WHERE item_id = $1
		ORDER BY created_at DESC`

	transactions := []models.InventoryTransaction{}
	if err := r.db.SelectContext(ctx, &transactions, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list inventory transactions: %w", err)
	}
	return transactions, nil
}

func lockItem(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &item, query, id); err != nil {
		return nil, notFound(err, "lock inventory item")
	}
	return &item, nil
}

// receiveStock adds delivered quantity to an item inside tx
func receiveStock(ctx context.Context, tx *sqlx.Tx, itemID uuid.UUID, quantity int, note string, userID *uuid.UUID) error {
	item, err := lockItem(ctx, tx, itemID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE inventory_items
		SET total_quantity = total_quantity + $2,
		    available_quantity = available_quantity + $2,
		    updated_at = NOW()
		WHERE id = $1`, itemID, quantity); err != nil {
		return fmt.Errorf("failed to receive stock: %w", err)
	}

	return insertTransaction(ctx, tx, models.InventoryTransaction{
		ItemID:           itemID,
		TransactionType:  models.TransactionReceived,
		Quantity:         quantity,
		PreviousQuantity: item.TotalQuantity,
		NewQuantity:      item.TotalQuantity + quantity,
		Notes:            &note,
		CreatedBy:        userID,
	})
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, t models.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions (id, item_id, property_id, transaction_type, quantity,
		                                    previous_quantity, new_quantity, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	if _, err := tx.ExecContext(ctx, query,
		uuid.New(), t.ItemID, t.PropertyID, t.TransactionType, t.Quantity,
		t.PreviousQuantity, t.NewQuantity, t.Notes, t.CreatedBy,
	); err != nil {
		return fmt.Errorf("failed to record inventory transaction: %w", err)
	}
	return nil
}
