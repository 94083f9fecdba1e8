package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names in messages.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return model.Language(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("state", func(fl validator.FieldLevel) bool {
		return model.State(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return model.Plan(fl.Field().String()).Valid()
	})
	return v
}

// validationError is a client error with a human readable message.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	case "category":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), join(model.Categories))
	case "language":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), join(model.Languages))
	case "state":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), join(model.States))
	case "plan":
		return fmt.Sprintf("%s must be free or pro", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// decode reads a JSON body into dst and validates it.
func (s *server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalid("request body is required")
		}
		return invalid("invalid request body")
	}

	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = describe(fe)
			}
			return invalid("%s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}
