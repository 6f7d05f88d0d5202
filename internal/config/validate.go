package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobwas/glob"

	"github.com/mvp-joe/codedoc/internal/render"
)

var (
	// ErrInvalidStyle indicates a render style other than detailed or brief
	ErrInvalidStyle = errors.New("invalid render style")

	// ErrInvalidConcurrency indicates a negative worker count
	ErrInvalidConcurrency = errors.New("invalid concurrency")

	// ErrEmptySuffix indicates a missing source file suffix
	ErrEmptySuffix = errors.New("empty source suffix")

	// ErrEmptyOutput indicates a missing output path
	ErrEmptyOutput = errors.New("empty output path")

	// ErrInvalidIgnorePattern indicates an ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their yaml key so messages match config.yml.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("style", func(fl validator.FieldLevel) bool {
		_, err := render.ParseStyle(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("globpattern", func(fl validator.FieldLevel) bool {
		_, err := glob.Compile(fl.Field().String(), '/')
		return err == nil
	})
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, translate(fe))
	}
	return joinErrors(errs)
}

// translate maps a validator field error onto the package's sentinel errors.
func translate(fe validator.FieldError) error {
	switch fe.Tag() {
	case "style":
		return fmt.Errorf("%w: must be 'detailed' or 'brief', got '%v'", ErrInvalidStyle, fe.Value())
	case "gte":
		return fmt.Errorf("%w: %s cannot be negative, got %v", ErrInvalidConcurrency, fe.Field(), fe.Value())
	case "globpattern":
		return fmt.Errorf("%w: %s: '%v' does not compile", ErrInvalidIgnorePattern, fe.Field(), fe.Value())
	case "required":
		switch fe.StructField() {
		case "Suffix":
			return fmt.Errorf("%w: suffix is required", ErrEmptySuffix)
		case "Output":
			return fmt.Errorf("%w: output is required", ErrEmptyOutput)
		}
	}
	return fmt.Errorf("%s: failed '%s' validation", fe.Field(), fe.Tag())
}

// ValidationError holds every problem found in a configuration.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &ValidationError{Errs: errs}
}
