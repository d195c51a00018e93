package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", "min=8")                                  // password minimum length
		v.RegisterAlias("uname", "min=3,max=30")                         // username length bounds
		v.RegisterAlias("category", "oneof=CHEFF GROWN DESIGNER")        // listing category
		v.RegisterAlias("liststatus", "oneof=PRIVATE PUBLISHED")         // listing status
		v.RegisterAlias("deliverymode", "oneof=pickup courier both")     // delivery mode
		v.RegisterAlias("quiethour", "omitempty,datetime=15:04")         // quiet hours "HH:MM"
		v.RegisterAlias("sellerrole", "oneof=chef garden designer")      // seller role
		v.RegisterAlias("buyertype", "omitempty,oneof=private business") // buyer type
	}
}

// ToDetails converts validation/binding errors into a map[field]message
// suitable for the response envelope's error field.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "required_if":
		return "is required if " + param
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "len":
		return "must be exactly " + param + " characters long"
	case "oneof", "category", "liststatus", "deliverymode", "sellerrole", "buyertype":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "datetime", "quiethour":
		return "must match time format " + param
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "pwd":
		return "min length 8"
	case "uname":
		return "must be 3-30 characters"
	case "dive":
		return "array validation failed"
	default:
		if param != "" {
			return "validation failed for '" + tag + "' with parameter '" + param + "'"
		}
		return "validation failed for '" + tag + "'"
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
