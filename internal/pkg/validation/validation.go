// internal/pkg/validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

var (
	hundred = decimal.NewFromInt(100)

	registerOnce sync.Once
)

// Register installs the decimal validators on gin's binding engine.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		RegisterOn(v)
	})
}

// RegisterOn installs the decimal validators on v
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(jsonTagName)

	_ = v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl.Field())
		return ok && d.IsPositive()
	})
	_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl.Field())
		return ok && !d.IsNegative()
	})
	_ = v.RegisterValidation("dlte100", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl.Field())
		return ok && d.LessThanOrEqual(hundred)
	})
	// dplaces=N caps the number of decimal places
	_ = v.RegisterValidation("dplaces", func(fl validator.FieldLevel) bool {
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		if err != nil {
			return false
		}
		d, ok := asDecimal(fl.Field())
		return ok && d.Equal(d.Truncate(int32(places)))
	})
}

// decimalValue exposes decimals to the validator as strings so tags like
// required treat the zero decimal as present.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func asDecimal(field reflect.Value) (decimal.Decimal, bool) {
	switch v := field.Interface().(type) {
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case decimal.Decimal:
		return v, true
	}
	return decimal.Decimal{}, false
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// FieldErrors converts a binding error into field level messages
func FieldErrors(err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperror.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]apperror.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// BindingError wraps a gin binding failure as an invalid argument
func BindingError(err error) *apperror.AppError {
	return apperror.NewValidationError(FieldErrors(err))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "dgt0":
		return "must be greater than 0"
	case "dgte0":
		return "must be 0 or greater"
	case "dlte100":
		return "must be 100 or less"
	case "dplaces":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	case "dive":
		return "is invalid"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
