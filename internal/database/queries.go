package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, user_id, total_cents, status, contact_name, contact_phone, contact_address, contact_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, name, quantity, price_cents)
		VALUES ($1, $2, $3, $4, $5)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE number = $2`

	GetOrderByNumberSQL = `
		SELECT id, number, user_id, total_cents, status,
			   contact_name, contact_phone, contact_address, contact_notes,
			   created_at, updated_at
		FROM orders WHERE number = $1`

	GetOrderItemsSQL = `
		SELECT id, order_id, menu_item_id, name, quantity, price_cents
		FROM order_items WHERE order_id = $1
		ORDER BY id ASC`

	ListOrdersByUserSQL = `
		SELECT id, number, user_id, total_cents, status,
			   contact_name, contact_phone, contact_address, contact_notes,
			   created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC`

	ListAllOrdersSQL = `
		SELECT id, number, user_id, total_cents, status,
			   contact_name, contact_phone, contact_address, contact_notes,
			   created_at, updated_at
		FROM orders
		ORDER BY created_at DESC`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = (SELECT id FROM orders WHERE number = $1)
		ORDER BY changed_at ASC`

	GetNextOrderSequenceSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 'ORD_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE number LIKE $1`
)
