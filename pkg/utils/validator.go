package utils

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(ctx context.Context, s interface{}) error {
	return validate.StructCtx(ctx, s)
}

func ValidateURL(ctx context.Context, rawURL string) error {
	return validate.VarCtx(ctx, rawURL, "required,http_url")
}
