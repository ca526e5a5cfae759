package checkout_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/checkout"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/testutil"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	db        *gorm.DB
	checkout  *checkout.Service
	products  *product.Service
	customers *customer.Service
	ledger    *inventory.Ledger
}

func setup(t *testing.T, policy string) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&product.Product{},
		&customer.Customer{},
		&invoice.Invoice{},
		&invoice.InvoiceItem{},
		&inventory.StockMovement{},
	)
	cfg := testutil.Config()
	cfg.Checkout.MissingProductPolicy = policy

	ledger := inventory.NewLedger(db, cfg, lock.NewLocalLocker())
	customers := customer.NewService(db, cfg)
	invoices := invoice.NewService(db, cfg)

	return &fixture{
		db:        db,
		checkout:  checkout.NewService(db, cfg, ledger, customers, invoices),
		products:  product.NewService(db, cfg, ledger),
		customers: customers,
		ledger:    ledger,
	}
}

func (f *fixture) product(t *testing.T, name, price, rate, stock string) *product.Product {
	t.Helper()
	p, err := f.products.CreateProduct(&product.CreateRequest{
		Name:         name,
		Price:        d(price),
		GSTRate:      d(rate),
		OpeningStock: d(stock),
	}, nil)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) stockOf(t *testing.T, id uint) decimal.Decimal {
	t.Helper()
	var p product.Product
	if err := f.db.First(&p, id).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return p.CurrentStock
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func item(p *product.Product, qty string) checkout.CartItem {
	return checkout.CartItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    d(qty),
		Price:       p.Price,
		GSTRate:     p.GSTRate,
	}
}

func TestCheckout_ComposesInvoiceAndDeductsStock(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	ctx := context.Background()
	pen := f.product(t, "Pen", "50", "0", "10")
	book := f.product(t, "Book", "30", "12", "10")
	actor := uint(3)

	inv, err := f.checkout.Checkout(ctx, &checkout.Request{
		Items: []checkout.CartItem{item(pen, "1"), item(book, "3")},
	}, &actor)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !inv.Subtotal.Equal(d("140")) || !inv.TotalGST.Equal(d("10.8")) || !inv.Total.Equal(d("150.8")) {
		t.Errorf("unexpected totals: subtotal %s gst %s total %s", inv.Subtotal, inv.TotalGST, inv.Total)
	}
	if !inv.CGST.Equal(d("5.4")) || !inv.SGST.Equal(d("5.4")) {
		t.Errorf("unexpected split: %s/%s", inv.CGST, inv.SGST)
	}
	if inv.CustomerName != "Walk-in Customer" || inv.CustomerID != nil {
		t.Errorf("expected walk-in sale, got %q / %v", inv.CustomerName, inv.CustomerID)
	}
	if inv.PaymentMethod != "cash" {
		t.Errorf("expected default payment method, got %q", inv.PaymentMethod)
	}
	if len(inv.Items) != 2 || inv.Items[1].ProductName != "Book" {
		t.Fatalf("unexpected items: %+v", inv.Items)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-"+time.Now().Format("20060102")+"-") {
		t.Errorf("unexpected invoice number %q", inv.InvoiceNumber)
	}

	if got := f.stockOf(t, pen.ID); !got.Equal(d("9")) {
		t.Errorf("pen stock: expected 9, got %s", got)
	}
	if got := f.stockOf(t, book.ID); !got.Equal(d("7")) {
		t.Errorf("book stock: expected 7, got %s", got)
	}

	var sale inventory.StockMovement
	if err := f.db.Where("product_id = ? AND type = ?", book.ID, inventory.MovementSale).First(&sale).Error; err != nil {
		t.Fatalf("load sale movement: %v", err)
	}
	if sale.InvoiceID == nil || *sale.InvoiceID != inv.ID {
		t.Errorf("sale movement not linked to invoice: %v", sale.InvoiceID)
	}
	if !sale.Quantity.Equal(d("-3")) || !sale.PreviousStock.Equal(d("10")) || !sale.NewStock.Equal(d("7")) {
		t.Errorf("unexpected sale movement: %+v", sale)
	}
	if sale.Reason != "Sale - Invoice "+inv.InvoiceNumber {
		t.Errorf("unexpected reason %q", sale.Reason)
	}
	if sale.CreatedBy == nil || *sale.CreatedBy != actor {
		t.Errorf("expected actor on movement, got %v", sale.CreatedBy)
	}
}

func TestCheckout_CreatesCustomerForUnknownPhone(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	ctx := context.Background()
	p := f.product(t, "Rice", "100", "18", "10")

	inv, err := f.checkout.Checkout(ctx, &checkout.Request{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		CustomerEmail: "asha@example.com",
		Items:         []checkout.CartItem{item(p, "2")},
	}, nil)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if n := f.count(t, &customer.Customer{}); n != 1 {
		t.Fatalf("expected exactly one customer, got %d", n)
	}
	if inv.CustomerID == nil || inv.Customer == nil {
		t.Fatal("expected invoice linked to the new customer")
	}
	if inv.Customer.Name != "Asha" || inv.Customer.Phone != "9876543210" {
		t.Errorf("unexpected customer: %+v", inv.Customer)
	}
	if !inv.Total.Equal(d("236")) {
		t.Errorf("expected total 236, got %s", inv.Total)
	}

	// The same phone again links the existing customer.
	again, err := f.checkout.Checkout(ctx, &checkout.Request{
		CustomerName:  "Asha K",
		CustomerPhone: "9876543210",
		Items:         []checkout.CartItem{item(p, "1")},
		Discount:      d("50"),
	}, nil)
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}
	if n := f.count(t, &customer.Customer{}); n != 1 {
		t.Fatalf("expected customer reuse, got %d customers", n)
	}
	if again.CustomerID == nil || *again.CustomerID != *inv.CustomerID {
		t.Errorf("expected same customer id, got %v", again.CustomerID)
	}
	if again.CustomerName != "Asha K" {
		t.Errorf("snapshot should keep the name given at checkout, got %q", again.CustomerName)
	}
	if again.CustomerEmail != "asha@example.com" {
		t.Errorf("blank snapshot email should fall back to the customer record, got %q", again.CustomerEmail)
	}
}

func TestCheckout_NameWithoutPhoneIsWalkIn(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	p := f.product(t, "Tea", "10", "5", "5")

	inv, err := f.checkout.Checkout(context.Background(), &checkout.Request{
		CustomerName: "Passer-by",
		Items:        []checkout.CartItem{item(p, "1")},
	}, nil)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if inv.CustomerID != nil || inv.CustomerName != "Passer-by" {
		t.Errorf("expected unlinked snapshot, got %v / %q", inv.CustomerID, inv.CustomerName)
	}
	if n := f.count(t, &customer.Customer{}); n != 0 {
		t.Errorf("expected no customer created, got %d", n)
	}
}

func TestCheckout_PhoneLookupPicksEarliestCustomer(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	p := f.product(t, "Tea", "10", "5", "5")

	first, err := f.customers.CreateCustomer(&customer.CreateRequest{Name: "First", Phone: "555"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := f.customers.CreateCustomer(&customer.CreateRequest{Name: "Second", Phone: "555"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	inv, err := f.checkout.Checkout(context.Background(), &checkout.Request{
		CustomerPhone: "555",
		Items:         []checkout.CartItem{item(p, "1")},
	}, nil)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if inv.CustomerID == nil || *inv.CustomerID != first.ID {
		t.Fatalf("expected earliest customer %d, got %v", first.ID, inv.CustomerID)
	}
	if inv.CustomerName != "First" {
		t.Errorf("expected snapshot name from record, got %q", inv.CustomerName)
	}
}

func TestCheckout_UnknownCustomerIDIsRejected(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	p := f.product(t, "Tea", "10", "5", "5")
	missing := uint(42)

	_, err := f.checkout.Checkout(context.Background(), &checkout.Request{
		CustomerID: &missing,
		Items:      []checkout.CartItem{item(p, "1")},
	}, nil)
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if n := f.count(t, &invoice.Invoice{}); n != 0 {
		t.Errorf("expected no invoice, got %d", n)
	}
}

func TestCheckout_NegativeStockRollsBackEverything(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	ctx := context.Background()
	plenty := f.product(t, "Plenty", "10", "5", "100")
	scarce := f.product(t, "Scarce", "10", "5", "1")

	_, err := f.checkout.Checkout(ctx, &checkout.Request{
		CustomerName:  "New person",
		CustomerPhone: "111",
		Items:         []checkout.CartItem{item(plenty, "5"), item(scarce, "2")},
	}, nil)
	if !apperror.IsKind(err, apperror.KindNegativeStock) {
		t.Fatalf("expected negative stock, got %v", err)
	}

	if n := f.count(t, &invoice.Invoice{}); n != 0 {
		t.Errorf("invoice survived rollback: %d", n)
	}
	if n := f.count(t, &invoice.InvoiceItem{}); n != 0 {
		t.Errorf("invoice items survived rollback: %d", n)
	}
	if n := f.count(t, &customer.Customer{}); n != 0 {
		t.Errorf("customer survived rollback: %d", n)
	}
	if got := f.stockOf(t, plenty.ID); !got.Equal(d("100")) {
		t.Errorf("plenty stock changed: %s", got)
	}
	if got := f.stockOf(t, scarce.ID); !got.Equal(d("1")) {
		t.Errorf("scarce stock changed: %s", got)
	}
	var sales int64
	f.db.Model(&inventory.StockMovement{}).Where("type = ?", inventory.MovementSale).Count(&sales)
	if sales != 0 {
		t.Errorf("sale movements survived rollback: %d", sales)
	}
}

func TestCheckout_InvalidCartHasNoSideEffects(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	p := f.product(t, "Tea", "10", "5", "5")

	tests := []struct {
		name string
		req  checkout.Request
	}{
		{"empty cart", checkout.Request{CustomerName: "A", CustomerPhone: "1"}},
		{"zero quantity", checkout.Request{CustomerName: "A", CustomerPhone: "1", Items: []checkout.CartItem{item(p, "0")}}},
		{"negative discount", checkout.Request{CustomerName: "A", CustomerPhone: "1", Items: []checkout.CartItem{item(p, "1")}, Discount: d("-1")}},
		{"quantity finer than the stock column", checkout.Request{CustomerName: "A", CustomerPhone: "1", Items: []checkout.CartItem{item(p, "0.0005")}}},
		{"price below a cent", checkout.Request{CustomerName: "A", CustomerPhone: "1", Items: []checkout.CartItem{
			{ProductID: p.ID, ProductName: p.Name, Quantity: d("1"), Price: d("10.005"), GSTRate: d("5")},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := f.checkout.Checkout(context.Background(), &req, nil); !apperror.IsKind(err, apperror.KindInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}

	if n := f.count(t, &customer.Customer{}); n != 0 {
		t.Errorf("customer created for invalid cart: %d", n)
	}
	if n := f.count(t, &invoice.Invoice{}); n != 0 {
		t.Errorf("invoice created for invalid cart: %d", n)
	}
	if got := f.stockOf(t, p.ID); !got.Equal(d("5")) {
		t.Errorf("stock changed by invalid cart: %s", got)
	}
}

func TestCheckout_MissingProductPolicy(t *testing.T) {
	ghost := checkout.CartItem{ProductID: 999, ProductName: "Deleted item", Quantity: d("1"), Price: d("20"), GSTRate: d("0")}

	t.Run("skip", func(t *testing.T) {
		f := setup(t, config.MissingProductSkip)
		p := f.product(t, "Real", "10", "0", "5")

		inv, err := f.checkout.Checkout(context.Background(), &checkout.Request{
			Items: []checkout.CartItem{item(p, "1"), ghost},
		}, nil)
		if err != nil {
			t.Fatalf("checkout: %v", err)
		}
		if len(inv.Items) != 2 || !inv.Total.Equal(d("30")) {
			t.Errorf("expected both lines billed, got %d items total %s", len(inv.Items), inv.Total)
		}
		if got := f.stockOf(t, p.ID); !got.Equal(d("4")) {
			t.Errorf("expected real product deducted, got %s", got)
		}
	})

	t.Run("fail", func(t *testing.T) {
		f := setup(t, config.MissingProductFail)
		p := f.product(t, "Real", "10", "0", "5")

		_, err := f.checkout.Checkout(context.Background(), &checkout.Request{
			Items: []checkout.CartItem{item(p, "1"), ghost},
		}, nil)
		if !apperror.IsKind(err, apperror.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if n := f.count(t, &invoice.Invoice{}); n != 0 {
			t.Errorf("invoice survived rollback: %d", n)
		}
		if got := f.stockOf(t, p.ID); !got.Equal(d("5")) {
			t.Errorf("stock changed: %s", got)
		}
	})
}

func TestCheckout_ConcurrentCheckoutsKeepLedgerConsistent(t *testing.T) {
	f := setup(t, config.MissingProductSkip)
	ctx := context.Background()
	a := f.product(t, "A", "10", "18", "50")
	b := f.product(t, "B", "20", "5", "50")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		items := []checkout.CartItem{item(a, "1"), item(b, "2")}
		if i%2 == 1 {
			items = []checkout.CartItem{item(b, "2"), item(a, "1")}
		}
		wg.Add(1)
		go func(items []checkout.CartItem) {
			defer wg.Done()
			if _, err := f.checkout.Checkout(ctx, &checkout.Request{Items: items}, nil); err != nil {
				errs <- err
			}
		}(items)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("checkout failed: %v", err)
	}

	if got := f.stockOf(t, a.ID); !got.Equal(d("30")) {
		t.Errorf("product A: expected 30, got %s", got)
	}
	if got := f.stockOf(t, b.ID); !got.Equal(d("10")) {
		t.Errorf("product B: expected 10, got %s", got)
	}

	for _, id := range []uint{a.ID, b.ID} {
		rec, err := f.ledger.Reconcile(ctx, id)
		if err != nil {
			t.Fatalf("reconcile: %v", err)
		}
		if !rec.Consistent {
			t.Errorf("ledger inconsistent for product %d: %+v", id, rec)
		}
	}

	if n := f.count(t, &invoice.Invoice{}); n != workers {
		t.Errorf("expected %d invoices, got %d", workers, n)
	}
}
