package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pagination"
)

func TestService_AdjustStockDefaultsReason(t *testing.T) {
	f := setup(t)
	p := f.createProduct(t, "Pen", "4")
	actor := uint(7)

	m, err := f.service.AdjustStock(context.Background(), &inventory.AdjustRequest{
		ProductID: p.ID,
		Quantity:  d("6"),
		Type:      inventory.MovementPurchase,
	}, &actor)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if m.Reason != "PURCHASE adjustment" {
		t.Errorf("unexpected reason %q", m.Reason)
	}
	if m.CreatedBy == nil || *m.CreatedBy != actor {
		t.Errorf("expected actor %d, got %v", actor, m.CreatedBy)
	}
	if got := f.stockOf(t, p.ID); !got.Equal(d("10")) {
		t.Errorf("expected stock 10, got %s", got)
	}
}

func TestService_AdjustStockRejectsSaleAndNegativeResult(t *testing.T) {
	f := setup(t)
	p := f.createProduct(t, "Ink", "2")
	ctx := context.Background()

	_, err := f.service.AdjustStock(ctx, &inventory.AdjustRequest{ProductID: p.ID, Quantity: d("-1"), Type: inventory.MovementSale}, nil)
	if !apperror.IsKind(err, apperror.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for SALE, got %v", err)
	}

	_, err = f.service.AdjustStock(ctx, &inventory.AdjustRequest{ProductID: p.ID, Quantity: d("-3"), Type: inventory.MovementAdjustment}, nil)
	if !apperror.IsKind(err, apperror.KindNegativeStock) {
		t.Fatalf("expected negative stock, got %v", err)
	}

	_, err = f.service.AdjustStock(ctx, &inventory.AdjustRequest{ProductID: p.ID, Quantity: d("0.0001"), Type: inventory.MovementPurchase}, nil)
	if !apperror.IsKind(err, apperror.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for a fourth decimal place, got %v", err)
	}

	movement, err := f.service.AdjustStock(ctx, &inventory.AdjustRequest{ProductID: p.ID, Quantity: d("0.125"), Type: inventory.MovementPurchase}, nil)
	if err != nil {
		t.Fatalf("three decimal places should be accepted: %v", err)
	}
	if !movement.NewStock.Equal(movement.PreviousStock.Add(movement.Quantity)) || !movement.NewStock.Equal(d("2.125")) {
		t.Errorf("unexpected movement %s + %s = %s", movement.PreviousStock, movement.Quantity, movement.NewStock)
	}
}

func TestService_HistoryFiltersAndJoinsNames(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.createProduct(t, "Apple", "10")
	b := f.createProduct(t, "Banana", "10")

	if _, err := f.ledger.RecordMovement(ctx, sale(a.ID, "1")); err != nil {
		t.Fatalf("sale: %v", err)
	}
	if _, err := f.ledger.RecordMovement(ctx, sale(b.ID, "2")); err != nil {
		t.Fatalf("sale: %v", err)
	}

	res, err := f.service.GetHistory(&inventory.HistoryRequest{ProductID: a.ID})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if res.Pagination.Total != 2 {
		t.Fatalf("expected 2 movements for apple, got %d", res.Pagination.Total)
	}
	if res.Items[0].Type != inventory.MovementSale {
		t.Errorf("expected newest movement first, got %s", res.Items[0].Type)
	}
	if res.Items[0].ProductName != "Apple" {
		t.Errorf("expected joined product name, got %q", res.Items[0].ProductName)
	}

	res, err = f.service.GetHistory(&inventory.HistoryRequest{Type: "sale"})
	if err != nil {
		t.Fatalf("history by type: %v", err)
	}
	if res.Pagination.Total != 2 {
		t.Fatalf("expected 2 sale movements, got %d", res.Pagination.Total)
	}

	res, err = f.service.GetHistory(&inventory.HistoryRequest{Params: pagination.Params{Page: 2, Limit: 3}})
	if err != nil {
		t.Fatalf("history page 2: %v", err)
	}
	if len(res.Items) != 1 || res.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected page: %d items, %d pages", len(res.Items), res.Pagination.TotalPages)
	}

	if _, err := f.service.GetHistory(&inventory.HistoryRequest{Type: "LOSS"}); !apperror.IsKind(err, apperror.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown type, got %v", err)
	}
}

func TestService_Alerts(t *testing.T) {
	f := setup(t)
	low, high := d("5"), d("50")

	create := func(name, opening string, active bool) {
		t.Helper()
		if _, err := f.products.CreateProduct(&product.CreateRequest{
			Name:           name,
			Price:          d("1"),
			OpeningStock:   d(opening),
			LowStockAlert:  &low,
			OverStockAlert: &high,
			IsActive:       &active,
		}, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	create("At low mark", "5", true)
	create("Comfortable", "20", true)
	create("At high mark", "50", true)
	create("Inactive low", "1", false)

	alerts, err := f.service.GetAlerts()
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts.LowStock) != 1 || alerts.LowStock[0].Name != "At low mark" {
		t.Errorf("unexpected low stock alerts: %+v", alerts.LowStock)
	}
	if len(alerts.OverStock) != 1 || alerts.OverStock[0].Name != "At high mark" {
		t.Errorf("unexpected over stock alerts: %+v", alerts.OverStock)
	}
}

func TestService_Predict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	fast := f.createProduct(t, "Fast mover", "100")
	slow := f.createProduct(t, "Slow mover", "100")
	idle := f.createProduct(t, "Idle", "100")

	if _, err := f.ledger.RecordMovement(ctx, sale(fast.ID, "60")); err != nil {
		t.Fatalf("sale: %v", err)
	}
	if _, err := f.ledger.RecordMovement(ctx, sale(slow.ID, "3")); err != nil {
		t.Fatalf("sale: %v", err)
	}

	// A sale outside the window must not count.
	old := time.Now().AddDate(0, 0, -45)
	if _, err := f.ledger.RecordMovement(ctx, sale(idle.ID, "30")); err != nil {
		t.Fatalf("sale: %v", err)
	}
	if err := f.db.Model(&inventory.StockMovement{}).
		Where("product_id = ? AND type = ?", idle.ID, inventory.MovementSale).
		Update("created_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	preds, err := f.service.Predict(nil, 30)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(preds))
	}

	first := preds[0]
	if first.ProductID != fast.ID {
		t.Fatalf("expected fast mover first, got %s", first.ProductName)
	}
	if !first.AverageDailySales.Equal(d("2")) {
		t.Errorf("expected average 2/day, got %s", first.AverageDailySales)
	}
	if first.DaysUntilStockout == nil || !first.DaysUntilStockout.Equal(d("20")) {
		t.Errorf("expected 20 days until stockout, got %v", first.DaysUntilStockout)
	}
	if !first.StockNeeded30.Equal(d("20")) || !first.StockNeeded90.Equal(d("140")) {
		t.Errorf("unexpected stock needed: %s / %s", first.StockNeeded30, first.StockNeeded90)
	}

	last := preds[2]
	if last.ProductID != idle.ID || last.DaysUntilStockout != nil {
		t.Errorf("expected idle product last with no stockout estimate, got %+v", last)
	}

	one, err := f.service.Predict(&slow.ID, 30)
	if err != nil {
		t.Fatalf("predict one: %v", err)
	}
	if len(one) != 1 || !one[0].AverageDailySales.Equal(d("0.1")) {
		t.Fatalf("unexpected single prediction: %+v", one)
	}

	missing := uint(9999)
	if _, err := f.service.Predict(&missing, 30); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
