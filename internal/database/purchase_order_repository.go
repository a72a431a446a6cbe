package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staffhousing/backoffice-api/internal/models"
)

const purchaseOrderColumns = `
	id, supplier_id, property_id, order_date, expected_delivery_date, status,
	total_amount, notes, created_by, created_at, updated_at`

const purchaseOrderItemColumns = `id, purchase_order_id, item_id, quantity, unit_price, received_quantity`

// PurchaseOrderRepository handles purchase orders and their lines
type PurchaseOrderRepository struct {
	db DB
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// Create stores an order and its lines in one transaction
func (r *PurchaseOrderRepository) Create(ctx context.Context, po *models.PurchaseOrder) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}

	orderQuery := `
		INSERT INTO purchase_orders (id, supplier_id, property_id, order_date, expected_delivery_date,
		                             status, total_amount, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at`

	itemQuery := `
		INSERT INTO purchase_order_items (id, purchase_order_id, item_id, quantity, unit_price, received_quantity)
		VALUES ($1, $2, $3, $4, $5, 0)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, orderQuery,
			po.ID, po.SupplierID, po.PropertyID, po.OrderDate, po.ExpectedDeliveryDate,
			po.Status, po.TotalAmount, po.Notes, po.CreatedBy,
		).Scan(&po.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		for i := range po.Items {
			line := &po.Items[i]
			if line.ID == uuid.Nil {
				line.ID = uuid.New()
			}
			line.PurchaseOrderID = po.ID
			if _, err := tx.ExecContext(ctx, itemQuery, line.ID, po.ID, line.ItemID, line.Quantity, line.UnitPrice); err != nil {
				return fmt.Errorf("failed to create purchase order item: %w", err)
			}
		}
		return nil
	})
}

// List returns orders newest first. An empty status returns every order.
func (r *PurchaseOrderRepository) List(ctx context.Context, status string) ([]models.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC`

	orders := []models.PurchaseOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, status); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return orders, nil
}

// GetByID returns one order with its lines
func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	if err := r.db.GetContext(ctx, &po, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "get purchase order")
	}

	po.Items = []models.PurchaseOrderItem{}
	query := `SELECT ` + purchaseOrderItemColumns + ` FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &po.Items, query, id); err != nil {
		return nil, fmt.Errorf("failed to list purchase order items: %w", err)
	}
	return &po, nil
}

// UpdateStatus sets a new status
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PurchaseOrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	return requireAffected(result, "update purchase order status")
}

// Receive books delivered quantity against one line, adds it to inventory and
// moves the order to partial or delivered. It returns the new order status.
func (r *PurchaseOrderRepository) Receive(ctx context.Context, orderID, itemID uuid.UUID, quantity int, userID *uuid.UUID) (models.PurchaseOrderStatus, error) {
	var status models.PurchaseOrderStatus

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current models.PurchaseOrderStatus
		if err := tx.GetContext(ctx, &current,
			`SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE`, orderID); err != nil {
			return notFound(err, "lock purchase order")
		}
		if current != models.PurchaseOrderOrdered && current != models.PurchaseOrderPartial {
			return fmt.Errorf("cannot receive a %s purchase order: %w", current, models.ErrInvalidStatusTransition)
		}

		var line models.PurchaseOrderItem
		if err := tx.GetContext(ctx, &line, `SELECT `+purchaseOrderItemColumns+`
			FROM purchase_order_items
			WHERE purchase_order_id = $1 AND item_id = $2
			FOR UPDATE`, orderID, itemID); err != nil {
			return notFound(err, "get purchase order item")
		}
		if quantity > line.Outstanding() {
			return models.ErrInvalidField("quantity",
				fmt.Sprintf("Cannot receive %d; only %d outstanding.", quantity, line.Outstanding()))
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE purchase_order_items SET received_quantity = received_quantity + $2 WHERE id = $1`,
			line.ID, quantity); err != nil {
			return fmt.Errorf("failed to update received quantity: %w", err)
		}

		if err := receiveStock(ctx, tx, itemID, quantity, "Received against purchase order "+orderID.String(), userID); err != nil {
			return err
		}

		var outstanding int
		if err := tx.GetContext(ctx, &outstanding, `
			SELECT COALESCE(SUM(quantity - received_quantity), 0)
			FROM purchase_order_items
			WHERE purchase_order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to count outstanding quantity: %w", err)
		}

		status = models.PurchaseOrderPartial
		if outstanding <= 0 {
			status = models.PurchaseOrderDelivered
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			orderID, status); err != nil {
			return fmt.Errorf("failed to update purchase order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}
