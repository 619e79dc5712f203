package validate

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// notblank is the trimmed "required": whitespace only values fail.
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic("failed to register notblank validation: " + err.Error())
	}
}

// Struct is a thin wrapper around validator.Validate's StructCtx.
// This exists purely to ensure that we only have one validator cache.
func Struct(ctx context.Context, s any) error {
	return validate.StructCtx(ctx, s)
}

// Var validates a single value against the tag rules, like a struct field would be.
func Var(ctx context.Context, field any, tag string) error {
	return validate.VarCtx(ctx, field, tag)
}

// FailedFields returns the struct field names (not the tag names) which failed,
// in the order the validator reported them.
// Any error that isn't from the validator is returned as is.
func FailedFields(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.StructField())
	}

	return fields, nil
}
