package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// fieldMessages maps "<json field>.<tag>" to the message shown under the input.
var fieldMessages = map[string]string{
	"customerId.required":    "Please select a customer",
	"customerId.gte":         "Please select a customer",
	"itemType.required":      "Item type is required",
	"itemType.max":           "Item type too long",
	"weight.required":        "Weight is required",
	"weight.gt":              "Weight is required",
	"weight.gte":             "Weight must be at least 0.1g",
	"weight.lte":             "Weight too high",
	"purity.required":        "Purity is required",
	"purity.oneof":           "Purity must be one of 24K, 22K, 18K, 14K",
	"amount.required":        "Loan amount is required",
	"amount.gt":              "Loan amount is required",
	"amount.gte":             "Loan amount must be at least ₹1",
	"amount.lte":             "Loan amount too high",
	"pledgeDuration.gte":     "Duration must be at least 1 month",
	"pledgeDuration.lte":     "Duration too long",
	"notes.max":              "Notes too long",
	"name.required":          "Name is required",
	"name.max":               "Name too long",
	"phone.max":              "Invalid phone number",
	"email.max":              "Email too long",
	"email.email":            "Invalid email format",
	"address.max":            "Address too long",
	"customerPhoto.required": "Customer photo is required",
	"itemPhoto.required":     "Item photo is required",
	"receiptPhoto.required":  "Receipt photo is required",
}

// Validator wraps go-playground/validator with JSON field names and the
// form's own messages.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Range tags on money compare against the float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Validator{validate: v}
}

// Fields validates s and returns field -> message, or nil when s is valid.
func (v *Validator) Fields(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(name, fe.Tag())
	}
	return fields
}

func message(field, tag string) string {
	if msg, ok := fieldMessages[field+"."+tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
