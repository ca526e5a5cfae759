package validation_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/validation"
)

type item struct {
	Price    decimal.Decimal  `json:"price" validate:"dgt0"`
	Rate     decimal.Decimal  `json:"gst_rate" validate:"dgte0,dlte100"`
	Discount *decimal.Decimal `json:"discount" validate:"omitempty,dgte0"`
	Name     string           `json:"name" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterOn(v)
	return v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDecimalRules(t *testing.T) {
	neg := dec("-1")
	zero := dec("0")

	tests := []struct {
		name   string
		in     item
		fields []string
	}{
		{"valid", item{Price: dec("10"), Rate: dec("18"), Name: "a"}, nil},
		{"zero discount allowed", item{Price: dec("1"), Rate: dec("0"), Discount: &zero, Name: "a"}, nil},
		{"zero price", item{Price: dec("0"), Rate: dec("5"), Name: "a"}, []string{"price"}},
		{"rate above hundred", item{Price: dec("1"), Rate: dec("100.5"), Name: "a"}, []string{"gst_rate"}},
		{"negative rate and discount", item{Price: dec("1"), Rate: dec("-2"), Discount: &neg, Name: "a"}, []string{"gst_rate", "discount"}},
		{"missing name", item{Price: dec("1"), Rate: dec("5")}, []string{"name"}},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			fieldErrors := validation.FieldErrors(err)
			if len(fieldErrors) != len(tt.fields) {
				t.Fatalf("expected %d field errors, got %+v", len(tt.fields), fieldErrors)
			}
			for i, want := range tt.fields {
				if fieldErrors[i].Field != want {
					t.Errorf("error %d: expected field %q, got %q", i, want, fieldErrors[i].Field)
				}
			}
		})
	}
}

func TestFieldErrors_Messages(t *testing.T) {
	err := newValidator().Struct(item{Price: dec("0"), Rate: dec("101")})
	got := map[string]string{}
	for _, fe := range validation.FieldErrors(err) {
		got[fe.Field] = fe.Message
	}

	want := map[string]string{
		"price":    "must be greater than 0",
		"gst_rate": "must be 100 or less",
		"name":     "is required",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, got[field])
		}
	}
}

func TestBindingError(t *testing.T) {
	appErr := validation.BindingError(errors.New("unexpected EOF"))
	if appErr.Kind != apperror.KindInvalidArgument {
		t.Errorf("expected invalid argument, got %s", appErr.Kind)
	}
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != "body" {
		t.Errorf("expected a single body error, got %+v", appErr.Errors)
	}
}

type line struct {
	Quantity decimal.Decimal  `json:"quantity" validate:"dgt0,dplaces=3"`
	Price    decimal.Decimal  `json:"price" validate:"dgt0,dplaces=2"`
	Discount *decimal.Decimal `json:"discount" validate:"omitempty,dplaces=2"`
}

func TestDecimalPlaces(t *testing.T) {
	sub := dec("0.005")
	cent := dec("0.50")

	tests := []struct {
		name    string
		in      line
		fields  []string
		message string
	}{
		{"within scale", line{Quantity: dec("1.125"), Price: dec("10.5"), Discount: &cent}, nil, ""},
		{"trailing zeros do not count", line{Quantity: dec("2.5000"), Price: dec("3.1000")}, nil, ""},
		{"quantity too fine", line{Quantity: dec("0.0005"), Price: dec("1")}, []string{"quantity"}, "must have at most 3 decimal places"},
		{"price and discount too fine", line{Quantity: dec("1"), Price: dec("10.005"), Discount: &sub}, []string{"price", "discount"}, "must have at most 2 decimal places"},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			fieldErrors := validation.FieldErrors(err)
			if len(fieldErrors) != len(tt.fields) {
				t.Fatalf("expected %d field errors, got %+v", len(tt.fields), fieldErrors)
			}
			for i, want := range tt.fields {
				if fieldErrors[i].Field != want {
					t.Errorf("error %d: expected field %q, got %q", i, want, fieldErrors[i].Field)
				}
			}
			if fieldErrors[0].Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, fieldErrors[0].Message)
			}
		})
	}
}
