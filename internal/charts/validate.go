package charts

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps config field names to user-facing messages.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = fmt.Sprintf("%s: %s", f, e.Errors[f])
	}
	return "invalid chart config: " + strings.Join(msgs, ", ")
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func fromValidator(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Errors: map[string]string{}}
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out.Errors[fe.Field()] = "is required"
		case "min":
			out.Errors[fe.Field()] = "must be at least " + fe.Param()
		case "max":
			out.Errors[fe.Field()] = "must be at most " + fe.Param()
		default:
			out.Errors[fe.Field()] = "is invalid"
		}
	}
	return out
}
