package repository

import "context"

// WithinTxの中だけで使えるrepo一式（同じtxを共有する）
type TxRepos interface {
	Carts() CartRepository
	CartItems() CartItemRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	AuditLogs() AuditLogRepository
}

// fnがerrorならrollback、nilならcommit
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
