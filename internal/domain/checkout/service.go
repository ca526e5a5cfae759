// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
)

// Service turns a cart into a persisted invoice and its stock movements
type Service struct {
	db        *gorm.DB
	config    *config.Config
	ledger    *inventory.Ledger
	customers *customer.Service
	invoices  *invoice.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config, ledger *inventory.Ledger, customers *customer.Service, invoices *invoice.Service) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		ledger:    ledger,
		customers: customers,
		invoices:  invoices,
	}
}

// CartItem represents one line of the cart
type CartItem struct {
	ProductID   uint            `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,max=255"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dgt0,dplaces=3"`
	Price       decimal.Decimal `json:"price" binding:"dgt0,dplaces=2"`
	GSTRate     decimal.Decimal `json:"gst_rate" binding:"dgte0,dlte100,dplaces=2"`
}

// Request represents a checkout submission
type Request struct {
	CustomerID      *uint           `json:"customer_id"`
	CustomerName    string          `json:"customer_name" binding:"max=255"`
	CustomerPhone   string          `json:"customer_phone" binding:"max=20"`
	CustomerEmail   string          `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerAddress string          `json:"customer_address"`
	CustomerGSTIN   string          `json:"customer_gstin" binding:"max=15"`
	Items           []CartItem      `json:"items" binding:"required,min=1,dive"`
	Discount        decimal.Decimal `json:"discount" binding:"dgte0,dplaces=2"`
	PaymentMethod   string          `json:"payment_method" binding:"max=50"`
	Notes           string          `json:"notes"`
}

// Checkout validates and prices the cart, then in a single transaction
// resolves the customer, writes the invoice and records one SALE movement
// per line. Any failure rolls back everything.
func (s *Service) Checkout(ctx context.Context, req *Request, actorID *uint) (*invoice.Invoice, error) {
	composition, err := invoice.Compose(cartLines(req.Items), req.Discount)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		keys = append(keys, inventory.ProductLockKey(item.ProductID))
	}
	release, err := lock.LockAll(ctx, s.ledger.Locker(), keys)
	if err != nil {
		return nil, err
	}
	defer release()

	var created invoice.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cust, err := s.resolveCustomer(tx, req)
		if err != nil {
			return err
		}

		created = s.buildInvoice(req, cust, composition, actorID)
		if err := s.invoices.CreateWithItems(tx, &created); err != nil {
			return err
		}

		invoiceID := created.ID
		for _, item := range req.Items {
			_, err := s.ledger.RecordMovementTx(tx, inventory.MovementRequest{
				ProductID: item.ProductID,
				Type:      inventory.MovementSale,
				Quantity:  item.Quantity.Neg(),
				Reason:    fmt.Sprintf("Sale - Invoice %s", created.InvoiceNumber),
				InvoiceID: &invoiceID,
				ActorID:   actorID,
			})
			if err == nil {
				continue
			}
			if apperror.IsKind(err, apperror.KindNotFound) && !s.config.FailOnMissingProduct() {
				logrus.WithFields(logrus.Fields{
					"invoice_number": created.InvoiceNumber,
					"product_id":     item.ProductID,
				}).Warn("product missing during checkout, stock step skipped")
				continue
			}
			return err
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"items": len(req.Items),
			"error": err.Error(),
		}).Warn("checkout rolled back")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"invoice_id":     created.ID,
		"invoice_number": created.InvoiceNumber,
		"customer_id":    created.CustomerID,
		"total":          created.Total.String(),
		"items":          len(req.Items),
	}).Info("checkout committed")

	return s.invoices.GetInvoice(created.ID)
}

// resolveCustomer links an existing customer by id or phone, creates one
// when a phone and name are given but no customer has that phone, and
// otherwise returns nil for a walk-in sale.
func (s *Service) resolveCustomer(tx *gorm.DB, req *Request) (*customer.Customer, error) {
	if req.CustomerID != nil {
		return s.customers.FindByID(tx, *req.CustomerID)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if phone == "" {
		return nil, nil
	}

	existing, err := s.customers.FindByPhone(tx, phone)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsKind(err, apperror.KindNotFound) {
		return nil, err
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, nil
	}

	return s.customers.Create(tx, &customer.CreateRequest{
		Name:    req.CustomerName,
		Phone:   phone,
		Email:   req.CustomerEmail,
		Address: req.CustomerAddress,
		GSTIN:   req.CustomerGSTIN,
	})
}

// buildInvoice captures the customer snapshot. Fields left blank on the
// request are taken from the linked customer record.
func (s *Service) buildInvoice(req *Request, cust *customer.Customer, c *invoice.Composition, actorID *uint) invoice.Invoice {
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)
	email := strings.TrimSpace(req.CustomerEmail)
	address := strings.TrimSpace(req.CustomerAddress)
	gstin := strings.ToUpper(strings.TrimSpace(req.CustomerGSTIN))

	var customerID *uint
	if cust != nil {
		id := cust.ID
		customerID = &id
		name = firstNonEmpty(name, cust.Name)
		phone = firstNonEmpty(phone, cust.Phone)
		email = firstNonEmpty(email, cust.Email)
		address = firstNonEmpty(address, cust.Address)
		gstin = firstNonEmpty(gstin, cust.GSTIN)
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = s.config.Checkout.DefaultPaymentMethod
	}

	return invoice.Invoice{
		CustomerID:      customerID,
		CustomerName:    firstNonEmpty(name, s.config.Checkout.WalkInCustomerName, "Walk-in Customer"),
		CustomerPhone:   phone,
		CustomerEmail:   email,
		CustomerAddress: address,
		CustomerGSTIN:   gstin,
		Subtotal:        c.Totals.Subtotal,
		CGST:            c.Totals.CGST,
		SGST:            c.Totals.SGST,
		TotalGST:        c.Totals.TotalGST,
		Discount:        c.Totals.Discount,
		Total:           c.Totals.Total,
		PaymentMethod:   firstNonEmpty(paymentMethod, "cash"),
		Notes:           req.Notes,
		CreatedBy:       actorID,
		Items:           c.Items(),
	}
}

func cartLines(items []CartItem) []invoice.Line {
	lines := make([]invoice.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, invoice.Line{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			GSTRate:     item.GSTRate,
		})
	}
	return lines
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
