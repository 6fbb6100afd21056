// Package binding decodes and validates JSON request bodies.
package binding

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

const defaultMaxBytes = 2 << 20

// ErrInvalidJSON is returned when the body is not a single well-formed JSON object.
var ErrInvalidJSON = errors.New("invalid JSON payload")

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Binder decodes request bodies with a size cap and validates them with struct tags.
type Binder struct {
	validate *validator.Validate
	maxBytes int64
}

// New creates a Binder. maxBytes <= 0 selects a 2 MiB cap.
func New(maxBytes int64) *Binder {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Binder{validate: v, maxBytes: maxBytes}
}

// Bind decodes r's body into dst and validates it.
func (b *Binder) Bind(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, b.maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return b.Validate(dst)
}

// Validate runs struct-tag validation on v.
func (b *Binder) Validate(v interface{}) error {
	err := b.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s failed %q validation", field, fe.Tag()),
		}
	}
	return err
}

// BindOrRespond binds dst and writes a 400 response on failure. It reports whether binding succeeded.
func (b *Binder) BindOrRespond(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := b.Bind(w, r, dst)
	if err == nil {
		return true
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, vErr.Message, vErr.Field)
		return false
	}
	httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
	return false
}
