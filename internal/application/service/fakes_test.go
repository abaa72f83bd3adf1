package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/pagination"
)

// fakeAtomic runs the scope function against the same registry the
// services read from, so tests observe every write.
type fakeAtomic struct {
	reg *repository.Registry
}

func (a *fakeAtomic) Within(ctx context.Context, fn func(ctx context.Context, reg *repository.Registry) error) error {
	return fn(ctx, a.reg)
}

type fakeStaffRepo struct {
	staffs map[string]*entity.Staff
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	r.staffs[staff.StaffCode] = staff
	return nil
}

func (r *fakeStaffRepo) GetByStaffCode(ctx context.Context, staffCode string) (*entity.Staff, error) {
	return r.staffs[staffCode], nil
}

func (r *fakeStaffRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Staff, error) {
	for _, s := range r.staffs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, staff *entity.Staff) error {
	r.staffs[staff.StaffCode] = staff
	return nil
}

type fakeStoreRepo struct {
	stores map[string]*entity.Store
}

func (r *fakeStoreRepo) GetByCode(ctx context.Context, storeCode string) (*entity.Store, error) {
	return r.stores[storeCode], nil
}

func (r *fakeStoreRepo) List(ctx context.Context) ([]entity.Store, error) {
	var out []entity.Store
	for _, s := range r.stores {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	r.stores[store.StoreCode] = store
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.products[product.Jan] = product
	return nil
}

func (r *fakeProductRepo) CreateBatch(ctx context.Context, products []entity.Product) error {
	for i := range products {
		p := products[i]
		r.products[p.Jan] = &p
	}
	return nil
}

func (r *fakeProductRepo) GetByJan(ctx context.Context, jan string) (*entity.Product, error) {
	return r.products[jan], nil
}

func (r *fakeProductRepo) GetByJans(ctx context.Context, jans []string) ([]entity.Product, error) {
	var out []entity.Product
	for _, jan := range jans {
		if p, ok := r.products[jan]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.products[product.Jan] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, jan string) error {
	delete(r.products, jan)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		if params != nil && params.Search != "" && !strings.Contains(p.Name, params.Search) {
			continue
		}
		if params != nil && params.Status != "" && string(p.Status) != params.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

type fakeStorePriceRepo struct {
	prices map[string]*entity.StorePrice
}

func storePriceKey(storeCode, jan string) string {
	return storeCode + "/" + jan
}

func (r *fakeStorePriceRepo) Get(ctx context.Context, storeCode, jan string) (*entity.StorePrice, error) {
	return r.prices[storePriceKey(storeCode, jan)], nil
}

func (r *fakeStorePriceRepo) GetForStore(ctx context.Context, storeCode string, jans []string) ([]entity.StorePrice, error) {
	var out []entity.StorePrice
	for _, jan := range jans {
		if p, ok := r.prices[storePriceKey(storeCode, jan)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeStorePriceRepo) Upsert(ctx context.Context, price *entity.StorePrice) error {
	r.prices[storePriceKey(price.StoreCode, price.Jan)] = price
	return nil
}

func (r *fakeStorePriceRepo) Delete(ctx context.Context, storeCode, jan string) error {
	delete(r.prices, storePriceKey(storeCode, jan))
	return nil
}

type fakeStockRepo struct {
	stocks map[string]*entity.Stock
}

func (r *fakeStockRepo) Get(ctx context.Context, storeCode, jan string) (*entity.Stock, error) {
	return r.stocks[storePriceKey(storeCode, jan)], nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, storeCode, jan string) (*entity.Stock, error) {
	key := storePriceKey(storeCode, jan)
	if s, ok := r.stocks[key]; ok {
		return s, nil
	}
	s := &entity.Stock{ID: uuid.New(), StoreCode: storeCode, Jan: jan}
	r.stocks[key] = s
	return s, nil
}

func (r *fakeStockRepo) Adjust(ctx context.Context, stock *entity.Stock, delta int) error {
	stock.Stock += delta
	return nil
}

func (r *fakeStockRepo) ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.Stock, int64, error) {
	var out []entity.Stock
	for _, s := range r.stocks {
		if s.StoreCode == storeCode {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

type fakeStockReceiveRepo struct {
	histories []*entity.StockReceiveHistory
}

func (r *fakeStockReceiveRepo) Create(ctx context.Context, history *entity.StockReceiveHistory) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	r.histories = append(r.histories, history)
	return nil
}

func (r *fakeStockReceiveRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.StockReceiveHistory, error) {
	for _, h := range r.histories {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, nil
}

func (r *fakeStockReceiveRepo) ListByStore(ctx context.Context, storeCode string, params *pagination.PaginationParams) ([]entity.StockReceiveHistory, int64, error) {
	var out []entity.StockReceiveHistory
	for _, h := range r.histories {
		if h.StoreCode == storeCode {
			out = append(out, *h)
		}
	}
	return out, int64(len(out)), nil
}

type fakeDepartmentRepo struct {
	// keyed big/middle/small
	smalls map[string]*entity.Department
}

func (r *fakeDepartmentRepo) GetWithAncestors(ctx context.Context, level enum.DepartmentLevel, code string) (*entity.Department, error) {
	for _, d := range r.smalls {
		if d.Level == level && d.Code == code {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDepartmentRepo) GetSmallByPath(ctx context.Context, bigCode, middleCode, smallCode string) (*entity.Department, error) {
	return r.smalls[bigCode+"/"+middleCode+"/"+smallCode], nil
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, department *entity.Department) error {
	return nil
}

func (r *fakeDepartmentRepo) ListChildren(ctx context.Context, level enum.DepartmentLevel, parentCode string) ([]entity.Department, error) {
	return nil, nil
}

type fakePrepaidCardRepo struct {
	cards map[string]*entity.PrepaidCard
}

func (r *fakePrepaidCardRepo) Create(ctx context.Context, card *entity.PrepaidCard) error {
	r.cards[card.CardCode] = card
	return nil
}

func (r *fakePrepaidCardRepo) GetByCode(ctx context.Context, cardCode string) (*entity.PrepaidCard, error) {
	return r.cards[cardCode], nil
}

func (r *fakePrepaidCardRepo) GetByCodeForUpdate(ctx context.Context, cardCode string) (*entity.PrepaidCard, error) {
	return r.cards[cardCode], nil
}

func (r *fakePrepaidCardRepo) Update(ctx context.Context, card *entity.PrepaidCard) error {
	r.cards[card.CardCode] = card
	return nil
}

func (r *fakePrepaidCardRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.PrepaidCard, int64, error) {
	var out []entity.PrepaidCard
	for _, c := range r.cards {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeDiscountedTagRepo struct {
	tags map[string]*entity.DiscountedTag
}

func (r *fakeDiscountedTagRepo) Create(ctx context.Context, tag *entity.DiscountedTag) error {
	r.tags[tag.TagCode] = tag
	return nil
}

func (r *fakeDiscountedTagRepo) GetByCode(ctx context.Context, tagCode string) (*entity.DiscountedTag, error) {
	return r.tags[tagCode], nil
}

func (r *fakeDiscountedTagRepo) GetByCodeForUpdate(ctx context.Context, tagCode string) (*entity.DiscountedTag, error) {
	return r.tags[tagCode], nil
}

func (r *fakeDiscountedTagRepo) Update(ctx context.Context, tag *entity.DiscountedTag) error {
	r.tags[tag.TagCode] = tag
	return nil
}

type fakeWalletRepo struct {
	wallets map[uuid.UUID]*entity.Wallet
	entries []*entity.WalletEntry
}

func (r *fakeWalletRepo) Create(ctx context.Context, wallet *entity.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	r.wallets[wallet.CustomerID] = wallet
	return nil
}

func (r *fakeWalletRepo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error) {
	return r.wallets[customerID], nil
}

func (r *fakeWalletRepo) GetByCustomerIDForUpdate(ctx context.Context, customerID uuid.UUID) (*entity.Wallet, error) {
	return r.wallets[customerID], nil
}

func (r *fakeWalletRepo) Update(ctx context.Context, wallet *entity.Wallet) error {
	r.wallets[wallet.CustomerID] = wallet
	return nil
}

func (r *fakeWalletRepo) CreateEntry(ctx context.Context, entry *entity.WalletEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeWalletRepo) ListEntries(ctx context.Context, walletID uuid.UUID, params *pagination.PaginationParams) ([]entity.WalletEntry, int64, error) {
	var out []entity.WalletEntry
	for _, e := range r.entries {
		if e.WalletID == walletID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

type fakeApprovalRepo struct {
	approvals map[string]*entity.Approval
}

func (r *fakeApprovalRepo) Create(ctx context.Context, approval *entity.Approval) error {
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	r.approvals[approval.ApprovalNumber] = approval
	return nil
}

func (r *fakeApprovalRepo) GetByNumber(ctx context.Context, number string) (*entity.Approval, error) {
	return r.approvals[number], nil
}

func (r *fakeApprovalRepo) GetByNumberForUpdate(ctx context.Context, number string) (*entity.Approval, error) {
	return r.approvals[number], nil
}

func (r *fakeApprovalRepo) Update(ctx context.Context, approval *entity.Approval) error {
	r.approvals[approval.ApprovalNumber] = approval
	return nil
}

type fakeTransactionRepo struct {
	nextID int64
	txns   map[int64]*entity.Transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.nextID++
	transaction.ID = r.nextID
	r.txns[transaction.ID] = transaction
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	return r.txns[id], nil
}

func (r *fakeTransactionRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	return r.txns[id], nil
}

func (r *fakeTransactionRepo) UpdateStatus(ctx context.Context, id int64, status enum.TransactionStatus, correctionLinkID *int64) error {
	tx, ok := r.txns[id]
	if !ok {
		return nil
	}
	tx.Status = status
	tx.CorrectionLinkID = correctionLinkID
	return nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var out []entity.Transaction
	for _, tx := range r.txns {
		if params != nil && params.StoreCode != "" && tx.StoreCode != params.StoreCode {
			continue
		}
		if params != nil && params.Status != "" && string(tx.Status) != params.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

type fakeReturnRepo struct {
	nextID  int64
	returns map[int64]*entity.ReturnTransaction
}

func (r *fakeReturnRepo) Create(ctx context.Context, ret *entity.ReturnTransaction) error {
	r.nextID++
	ret.ID = r.nextID
	r.returns[ret.ID] = ret
	return nil
}

func (r *fakeReturnRepo) GetByID(ctx context.Context, id int64) (*entity.ReturnTransaction, error) {
	return r.returns[id], nil
}

func (r *fakeReturnRepo) ListByOrigin(ctx context.Context, originTransactionID int64) ([]entity.ReturnTransaction, error) {
	var out []entity.ReturnTransaction
	for _, ret := range r.returns {
		if ret.OriginTransactionID == originTransactionID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) List(ctx context.Context, params *repository.ReturnFilterParams) ([]entity.ReturnTransaction, int64, error) {
	var out []entity.ReturnTransaction
	for _, ret := range r.returns {
		if params != nil && params.StoreCode != "" && ret.StoreCode != params.StoreCode {
			continue
		}
		out = append(out, *ret)
	}
	return out, int64(len(out)), nil
}

func newFakeRegistry() *repository.Registry {
	return &repository.Registry{
		Staffs:         &fakeStaffRepo{staffs: map[string]*entity.Staff{}},
		Stores:         &fakeStoreRepo{stores: map[string]*entity.Store{}},
		Products:       &fakeProductRepo{products: map[string]*entity.Product{}},
		StorePrices:    &fakeStorePriceRepo{prices: map[string]*entity.StorePrice{}},
		Stocks:         &fakeStockRepo{stocks: map[string]*entity.Stock{}},
		StockReceives:  &fakeStockReceiveRepo{},
		Departments:    &fakeDepartmentRepo{smalls: map[string]*entity.Department{}},
		PrepaidCards:   &fakePrepaidCardRepo{cards: map[string]*entity.PrepaidCard{}},
		DiscountedTags: &fakeDiscountedTagRepo{tags: map[string]*entity.DiscountedTag{}},
		Wallets:        &fakeWalletRepo{wallets: map[uuid.UUID]*entity.Wallet{}},
		Approvals:      &fakeApprovalRepo{approvals: map[string]*entity.Approval{}},
		Transactions:   &fakeTransactionRepo{txns: map[int64]*entity.Transaction{}},
		Returns:        &fakeReturnRepo{returns: map[int64]*entity.ReturnTransaction{}},
	}
}

// seedStaff registers a store and an operator with the given role flags.
func seedStaff(reg *repository.Registry, staffCode, storeCode string, perms entity.RolePermission) {
	reg.Stores.Create(context.Background(), &entity.Store{StoreCode: storeCode, Name: "Store " + storeCode})
	reg.Staffs.Create(context.Background(), &entity.Staff{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		StaffCode:      staffCode,
		AffiliateStore: storeCode,
		PermissionCode: perms.Code,
		Permission:     perms,
	})
}

func allPermissions() entity.RolePermission {
	return entity.RolePermission{
		Code:         "admin",
		Name:         "Administrator",
		Register:     true,
		Global:       true,
		ChangePrice:  true,
		Void:         true,
		StockReceive: true,
	}
}

func cashierPermissions() entity.RolePermission {
	return entity.RolePermission{
		Code:     "cashier",
		Name:     "Cashier",
		Register: true,
	}
}

func seedProduct(reg *repository.Registry, jan, name string, price int64, tax int) *entity.Product {
	p := &entity.Product{
		Jan:    jan,
		Name:   name,
		Price:  price,
		Tax:    tax,
		Status: enum.ProductStatusInDeal,
	}
	reg.Products.Create(context.Background(), p)
	return p
}

func seedStock(reg *repository.Registry, storeCode, jan string, qty int) *entity.Stock {
	s, _ := reg.Stocks.GetForUpdate(context.Background(), storeCode, jan)
	s.Stock = qty
	return s
}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }
