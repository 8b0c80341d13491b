package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata,
// so a single instance is shared by the whole process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateURL checks that urlStr is a syntactically valid absolute URL.
// Any scheme is accepted as long as the rest of the URL has a recognizable
// structure (host, opaque part or fragment). Reachability is not checked.
func ValidateURL(urlStr string) error {
	if strings.TrimSpace(urlStr) == "" {
		return ErrEmptyURL
	}

	if err := validate.Var(urlStr, "url"); err != nil {
		return ErrInvalidURL
	}

	return nil
}

// ValidateStruct runs the `validate` struct tags of v.
// Every failing field is reported in the returned error, which wraps ErrInvalidPayload.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: v was not a struct
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(fields, ", "))
}
