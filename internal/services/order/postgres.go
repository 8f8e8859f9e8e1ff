package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-storefront/internal/database"
	"restaurant-storefront/internal/models"
)

// PostgresRepository implements the order ledger on PostgreSQL.
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a postgres-backed order repository.
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// NextDailySequence returns the next order sequence number for the given day.
func (r *PostgresRepository) NextDailySequence(ctx context.Context, date time.Time) (int, error) {
	pattern := fmt.Sprintf("ORD_%s_%%", date.Format("20060102"))
	var sequence int
	if err := r.db.QueryRow(ctx, database.GetNextOrderSequenceSQL, pattern).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get next order sequence: %w", err)
	}
	return sequence, nil
}

// CreateOrder inserts the order, its items and the initial status log entry
// in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.Number, order.UserID, order.TotalCents, order.Status,
		order.Contact.Name, order.Contact.Phone, order.Contact.Address, order.Contact.Notes,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if _, err := tx.Exec(ctx, database.InsertOrderItemSQL,
			order.ID, item.MenuItemID, item.Name, item.Quantity, item.PriceCents); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		order.ID, order.Status, order.Owner(), nil); err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrderByNumber loads one order with its items.
func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, database.GetOrderByNumberSQL, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// ListOrdersByUser returns the user's orders, newest first, items included.
func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.listOrders(ctx, database.ListOrdersByUserSQL, userID)
}

// ListAllOrders returns every order in the ledger, newest first.
func (r *PostgresRepository) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return r.listOrders(ctx, database.ListAllOrdersSQL)
}

// UpdateStatus writes the new status and appends a status log entry in one
// transaction. Transition legality is checked by the caller.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, order *models.Order, newStatus models.OrderStatus, changedBy string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, database.UpdateOrderStatusSQL, newStatus, order.Number)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if _, err := tx.Exec(ctx, database.InsertOrderStatusLogSQL,
		order.ID, newStatus, changedBy, nil); err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetStatusHistory returns the status log for an order, oldest first.
func (r *PostgresRepository) GetStatusHistory(ctx context.Context, number string) ([]models.OrderStatusLog, error) {
	rows, err := r.db.Query(ctx, database.GetOrderStatusHistorySQL, number)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	history := []models.OrderStatusLog{}
	for rows.Next() {
		var entry models.OrderStatusLog
		if err := rows.Scan(&entry.Status, &entry.ChangedBy, &entry.ChangedAt, &entry.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan status log entry: %w", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

func (r *PostgresRepository) listOrders(ctx context.Context, sql string, args ...interface{}) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID,
			&item.Name, &item.Quantity, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var order models.Order
	err := row.Scan(&order.ID, &order.Number, &order.UserID, &order.TotalCents, &order.Status,
		&order.Contact.Name, &order.Contact.Phone, &order.Contact.Address, &order.Contact.Notes,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
