package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"eventfinder/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Validator is implemented by request DTOs with rules that struct tags cannot express.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("category", validCategory); err != nil {
		panic(err)
	}
	return v
}

// strongPassword requires at least 8 characters with a lowercase letter, an
// uppercase letter, a digit and a symbol.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func validCategory(fl validator.FieldLevel) bool {
	_, ok := domain.ParseCategory(fl.Field().String())
	return ok
}

// ValidateStruct runs tag validation and, if dest implements Validator, its own
// rules. It returns one message per failed rule.
func ValidateStruct(dest any) []string {
	var msgs []string
	if err := validate.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
	}
	if v, ok := dest.(Validator); ok {
		msgs = append(msgs, v.Validate()...)
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be an email"
	case "strongpassword":
		return field + " is not strong enough"
	case "category":
		return "Category must be a valid EventCategory"
	case "latitude":
		return field + " must be a latitude between -90 and 90"
	case "longitude":
		return field + " must be a longitude between -180 and 180"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and validates it. On decode or validation failure it writes a 400 JSON error and
// returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if errs := ValidateStruct(dest); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}
