package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/01moynul/mayaj-store/internal/models"
)

// Form is the checkout POST body. Field names match the storefront's HTML form.
type Form struct {
	ShippingFullName   string `form:"shipping_full_name" json:"shipping_full_name" binding:"required,max=200"`
	ShippingEmail      string `form:"shipping_email" json:"shipping_email" binding:"required,email"`
	ShippingPhone      string `form:"shipping_phone" json:"shipping_phone" binding:"required,max=15,phone"`
	ShippingAddress    string `form:"shipping_address" json:"shipping_address" binding:"required"`
	ShippingCity       string `form:"shipping_city" json:"shipping_city" binding:"required,max=100"`
	ShippingState      string `form:"shipping_state" json:"shipping_state" binding:"max=100"`
	ShippingZipCode    string `form:"shipping_zip_code" json:"shipping_zip_code" binding:"max=10"`
	DeliveryArea       string `form:"delivery_area" json:"delivery_area" binding:"required,deliveryarea"`
	PaymentMethod      string `form:"payment_method" json:"payment_method" binding:"required,paymentmethod"`
	TransactionID      string `form:"transaction_id" json:"transaction_id" binding:"max=100"`
	SenderMobileNumber string `form:"sender_mobile_number" json:"sender_mobile_number" binding:"omitempty,max=15,phone"`
	Notes              string `form:"notes" json:"notes"`
}

// Trim strips surrounding whitespace from every text field.
func (f *Form) Trim() {
	for _, p := range []*string{
		&f.ShippingFullName, &f.ShippingEmail, &f.ShippingPhone, &f.ShippingAddress,
		&f.ShippingCity, &f.ShippingState, &f.ShippingZipCode, &f.DeliveryArea,
		&f.PaymentMethod, &f.TransactionID, &f.SenderMobileNumber, &f.Notes,
	} {
		*p = strings.TrimSpace(*p)
	}
}

var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]*$`)

// RegisterValidators adds the checkout rules to v and makes error field names follow
// the form tag, or the json tag when there is none.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" {
			name, _, _ = strings.Cut(fld.Tag.Get("json"), ",")
		}
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("deliveryarea", func(fl validator.FieldLevel) bool {
		return DeliveryArea(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
}

// FieldErrors turns a validation failure into {"field": "message"}.
// Other errors come back under the "form" key.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.String {
			return "Ensure this value has at most " + fe.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + fe.Param() + "."
	case "min":
		if fe.Kind() == reflect.String {
			return "Ensure this value has at least " + fe.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "oneof":
		return "Select a valid choice."
	case "deliveryarea":
		return "Select a valid delivery area."
	case "paymentmethod":
		return "Select a valid payment method."
	case "phone":
		return "Enter a valid phone number."
	default:
		return "Invalid value."
	}
}
