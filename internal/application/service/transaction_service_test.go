package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
)

func newTestTransactionService(reg *repository.Registry) *TransactionService {
	svc := NewTransactionService(reg, &fakeAtomic{reg: reg}, newTestResolver(), NewPermissionGate())
	svc.now = func() time.Time { return testClock }
	return svc
}

func TestCreateSaleHappyPath(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	seedStock(reg, "001", "4902220000012", 10)
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 3}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 500}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if tx.TotalAmount != 450 {
		t.Fatalf("total = %d, want 450", tx.TotalAmount)
	}
	if tx.TotalTax8 != 33 {
		t.Fatalf("tax8 = %d, want 33 (450*8/108)", tx.TotalTax8)
	}
	if tx.Deposit != 500 || tx.Change != 50 {
		t.Fatalf("deposit/change = %d/%d, want 500/50", tx.Deposit, tx.Change)
	}
	if len(tx.Lines) != 1 || tx.Lines[0].LineNo != 1 {
		t.Fatalf("unexpected lines: %+v", tx.Lines)
	}

	stock, _ := reg.Stocks.Get(context.Background(), "001", "4902220000012")
	if stock.Stock != 7 {
		t.Fatalf("stock = %d, want 7 after the sale", stock.Stock)
	}
}

func TestCreateSaleAllowsNegativeStock(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	svc := newTestTransactionService(reg)

	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 2}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 300}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stock, _ := reg.Stocks.Get(context.Background(), "001", "4902220000012")
	if stock.Stock != -2 {
		t.Fatalf("stock = %d, want -2: sales never block on stock", stock.Stock)
	}
}

func TestCreateTrainingHasNoSideEffects(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	seedStock(reg, "001", "4902220000012", 10)
	customerID := uuid.New()
	reg.Wallets.Create(context.Background(), &entity.Wallet{CustomerID: customerID, Balance: 1000})
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusTraining,
		CustomerID: &customerID,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 2}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodWallet, Amount: 300}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tx.Status != enum.TransactionStatusTraining {
		t.Fatalf("status = %s, want training", tx.Status)
	}

	// The transaction persisted but nothing else moved.
	stock, _ := reg.Stocks.Get(context.Background(), "001", "4902220000012")
	if stock.Stock != 10 {
		t.Fatalf("stock = %d, want untouched 10", stock.Stock)
	}
	wallet, _ := reg.Wallets.GetByCustomerID(context.Background(), customerID)
	if wallet.Balance != 1000 {
		t.Fatalf("wallet = %d, want untouched 1000", wallet.Balance)
	}
}

func TestCreateTrainingStillValidates(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	svc := newTestTransactionService(reg)

	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusTraining,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 100}},
	})
	if err == nil {
		t.Fatal("expected error: training runs validate payments like a sale")
	}
}

func TestCreateRejectsNonRegistrableStatus(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	svc := newTestTransactionService(reg)

	for _, status := range []enum.TransactionStatus{enum.TransactionStatusResale, enum.TransactionStatusReturn, enum.TransactionStatusVoid} {
		_, err := svc.Create(context.Background(), &CreateTransactionInput{
			StoreCode:  "001",
			StaffCode:  "000001",
			TerminalID: "reg-01",
			Status:     status,
			Items:      []LineInput{{Code: "4902220000012", Quantity: 1}},
			Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 100}},
		})
		if err == nil {
			t.Fatalf("expected %s to be rejected at the door", status)
		}
	}
}

func TestCreateRequiresRegisterPermissionAtStore(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000002", "001", cashierPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	svc := newTestTransactionService(reg)

	// Cashier registering at another store: no global permission.
	reg.Stores.Create(context.Background(), &entity.Store{StoreCode: "002", Name: "Store 002"})
	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "002",
		StaffCode:  "000002",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 150}},
	})
	if err == nil {
		t.Fatal("expected error: staff is not affiliated with the store")
	}
}

func TestCreateDiscountNeedsChangePricePermission(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000002", "001", cashierPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	svc := newTestTransactionService(reg)

	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000002",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "4902220000012", Discount: 50, Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 100}},
	})
	if err == nil {
		t.Fatal("expected error: cashier discounting without change_price")
	}
}

func TestCreateConsumesApproval(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	reg.Approvals.Create(context.Background(), &entity.Approval{ApprovalNumber: "12345678", IssuedBy: "000009"})
	svc := newTestTransactionService(reg)

	number := "12345678"
	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:      "001",
		StaffCode:      "000001",
		TerminalID:     "reg-01",
		Status:         enum.TransactionStatusSale,
		ApprovalNumber: &number,
		Items:          []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:       []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 150}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	approval, _ := reg.Approvals.GetByNumber(context.Background(), "12345678")
	if !approval.IsUsed {
		t.Fatal("approval must be consumed by the committed sale")
	}

	// Second use fails.
	_, err = svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:      "001",
		StaffCode:      "000001",
		TerminalID:     "reg-01",
		Status:         enum.TransactionStatusSale,
		ApprovalNumber: &number,
		Items:          []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:       []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 150}},
	})
	if err == nil {
		t.Fatal("expected error: approval number already used")
	}
}

func TestCreateTrainingDoesNotConsumeApproval(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	reg.Approvals.Create(context.Background(), &entity.Approval{ApprovalNumber: "12345678", IssuedBy: "000009"})
	svc := newTestTransactionService(reg)

	number := "12345678"
	_, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:      "001",
		StaffCode:      "000001",
		TerminalID:     "reg-01",
		Status:         enum.TransactionStatusTraining,
		ApprovalNumber: &number,
		Items:          []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:       []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 150}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	approval, _ := reg.Approvals.GetByNumber(context.Background(), "12345678")
	if approval.IsUsed {
		t.Fatal("a training run validates but never consumes the approval")
	}
}

func TestCreateWalletPayment(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	customerID := uuid.New()
	reg.Wallets.Create(context.Background(), &entity.Wallet{CustomerID: customerID, Balance: 500})
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		CustomerID: &customerID,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 2}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodWallet, Amount: 300}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	wallet, _ := reg.Wallets.GetByCustomerID(context.Background(), customerID)
	if wallet.Balance != 200 {
		t.Fatalf("wallet = %d, want 200 after payment", wallet.Balance)
	}
	entries, _, _ := reg.Wallets.ListEntries(context.Background(), wallet.ID, nil)
	if len(entries) != 1 || entries[0].Amount != -300 || entries[0].BalanceAfter != 200 {
		t.Fatalf("unexpected ledger entries: %+v", entries)
	}
	if entries[0].TransactionID == nil || *entries[0].TransactionID != tx.ID {
		t.Fatal("ledger entry must reference the transaction")
	}
}

func TestCreateSaleSellsPrepaidCard(t *testing.T) {
	const cardCode = "99010010010000000001"
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Gift Cards"})
	reg.PrepaidCards.Create(context.Background(), &entity.PrepaidCard{
		CardCode:   cardCode,
		Name:       "Gift Card 3000",
		Price:      3000,
		Status:     enum.CardStatusCreated,
		ExpiryDate: testClock.Add(365 * 24 * time.Hour),
	})
	customerID := uuid.New()
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		CustomerID: &customerID,
		Items:      []LineInput{{Code: cardCode, Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 3000}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	card, _ := reg.PrepaidCards.GetByCode(context.Background(), cardCode)
	if card.Status != enum.CardStatusSold {
		t.Fatalf("card status = %s, want sold", card.Status)
	}
	if card.BuyerID == nil || *card.BuyerID != customerID {
		t.Fatal("card must be stamped with the buyer")
	}
	if card.TransactionID == nil || *card.TransactionID != tx.ID {
		t.Fatal("card must be stamped with the transaction")
	}
}

func TestCreateSaleBurnsClearanceTag(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedProduct(reg, "4902220000012", "Day-old Bread", 300, 8)
	seedStock(reg, "001", "4902220000012", 5)
	reg.DiscountedTags.Create(context.Background(), &entity.DiscountedTag{
		TagCode:         "0200000000017",
		StoreCode:       "001",
		Jan:             "4902220000012",
		DiscountedPrice: 210,
	})
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "0200000000017", Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 210}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tx.TotalAmount != 210 {
		t.Fatalf("total = %d, want the tag price 210", tx.TotalAmount)
	}

	tag, _ := reg.DiscountedTags.GetByCode(context.Background(), "0200000000017")
	if !tag.IsUsed {
		t.Fatal("tag must be burned by the sale")
	}
	stock, _ := reg.Stocks.Get(context.Background(), "001", "4902220000012")
	if stock.Stock != 4 {
		t.Fatalf("stock = %d, want 4: tag lines debit the product stock", stock.Stock)
	}
}

func TestGetScopedToStore(t *testing.T) {
	reg := newFakeRegistry()
	seedStaff(reg, "000001", "001", allPermissions())
	seedStaff(reg, "000002", "002", cashierPermissions())
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	svc := newTestTransactionService(reg)

	tx, err := svc.Create(context.Background(), &CreateTransactionInput{
		StoreCode:  "001",
		StaffCode:  "000001",
		TerminalID: "reg-01",
		Status:     enum.TransactionStatusSale,
		Items:      []LineInput{{Code: "4902220000012", Quantity: 1}},
		Payments:   []PaymentInput{{Method: enum.PaymentMethodCash, Amount: 150}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), "000002", tx.ID); err == nil {
		t.Fatal("expected error: other-store staff reading the transaction")
	}
	if _, err := svc.Get(context.Background(), "000001", tx.ID); err != nil {
		t.Fatalf("global staff read failed: %v", err)
	}
}
