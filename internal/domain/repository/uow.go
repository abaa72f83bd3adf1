package repository

import "context"

// Registry bundles every repository so services depend on one seam and the
// unit of work can hand out transaction-scoped copies.
type Registry struct {
	Users           UserRepository
	Staffs          StaffRepository
	RolePermissions RolePermissionRepository
	Customers       CustomerRepository
	Stores          StoreRepository
	Products        ProductRepository
	StorePrices     StorePriceRepository
	Stocks          StockRepository
	StockReceives   StockReceiveRepository
	Variations      VariationRepository
	Departments     DepartmentRepository
	PrepaidCards    PrepaidCardRepository
	DiscountedTags  DiscountedTagRepository
	Wallets         WalletRepository
	Approvals       ApprovalRepository
	Transactions    TransactionRepository
	Returns         ReturnRepository
	Idempotency     IdempotencyRepository
}

// Atomic runs a function inside a database transaction. Every repository on
// the registry passed to fn operates on that transaction; FOR UPDATE locks
// taken through it are held until fn returns. An error from fn rolls the
// whole scope back.
type Atomic interface {
	Within(ctx context.Context, fn func(ctx context.Context, reg *Registry) error) error
}
