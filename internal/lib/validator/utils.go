package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"yamdb/proj/internal/domain/errs"
	"yamdb/proj/internal/lib/slug"

	govalidator "github.com/go-playground/validator/v10"
)

// Letters and digits of any script, plus _ . @ + -
var usernameRx = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ReservedUsernames can't be registered because they collide with routes like /users/me.
var ReservedUsernames = []string{"me"}

// New returns a validator with the custom tags used across request DTOs registered.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterValidation("username", ValidateUsername)
	v.RegisterValidation("slug", ValidateSlug)
	return v
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.Indirect(reflect.ValueOf(obj)).Type()
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	fieldName = camelToSnake(origFieldName)
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		if jsonName := strings.Split(tag, ",")[0]; jsonName != "" {
			fieldName = jsonName
		}
	} else if tag := field.Tag.Get("schema"); tag != "" && tag != "-" {
		if schemaName := strings.Split(tag, ",")[0]; schemaName != "" {
			fieldName = schemaName
		}
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.Indirect(reflect.ValueOf(obj)).Type()
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "unique":
			errorMsg = "Value must not contain duplicate values"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "username":
			errorMsg = "Username may contain only letters, digits and @/./+/-/_ and can't be one of " +
				strings.Join(ReservedUsernames, ", ")
		case "slug":
			errorMsg = fmt.Sprintf("Value must contain only latin letters, digits, hyphens and underscores (max %d)", slug.MaxLength)
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

func ValidateUsername(fl govalidator.FieldLevel) bool {
	username := fl.Field().String()
	return usernameRx.MatchString(username) && !IsReservedUsername(username)
}

func ValidateSlug(fl govalidator.FieldLevel) bool {
	return slug.IsValid(fl.Field().String())
}

func IsReservedUsername(username string) bool {
	for _, name := range ReservedUsernames {
		if strings.EqualFold(username, name) {
			return true
		}
	}
	return false
}

// DOMAIN RULES
//
// Rules are plain functions run in a fixed order by Check. A rule returns
// the offending field and a message, or two empty strings when satisfied.

type Rule func() (field, msg string)

// Check runs rules in order and collects the first failure for every field.
func Check(rules ...Rule) error {
	var failed map[string]string
	for _, rule := range rules {
		field, msg := rule()
		if field == "" {
			continue
		}
		if failed == nil {
			failed = make(map[string]string)
		}
		if _, seen := failed[field]; !seen {
			failed[field] = msg
		}
	}
	if failed == nil {
		return nil
	}
	return errs.NewValidationError(failed)
}

func YearNotInFuture(field string, year int32, now func() time.Time) Rule {
	return func() (string, string) {
		if current := now().Year(); int(year) > current {
			return field, fmt.Sprintf("Year can't be greater than the current one (%d)", current)
		}
		return "", ""
	}
}

func IntBetween(field string, value, min, max int) Rule {
	return func() (string, string) {
		if value < min || value > max {
			return field, fmt.Sprintf("Value should be between %d and %d", min, max)
		}
		return "", ""
	}
}

func NotBlank(field, value string) Rule {
	return func() (string, string) {
		if strings.TrimSpace(value) == "" {
			return field, "This field is required"
		}
		return "", ""
	}
}

func NotEmpty[T any](field string, values []T) Rule {
	return func() (string, string) {
		if len(values) == 0 {
			return field, "At least one value is required"
		}
		return "", ""
	}
}

func Username(field, username string) Rule {
	return func() (string, string) {
		if IsReservedUsername(username) {
			return field, fmt.Sprintf("Username can't be %q", username)
		}
		if !usernameRx.MatchString(username) {
			return field, "Username may contain only letters, digits and @/./+/-/_"
		}
		return "", ""
	}
}
