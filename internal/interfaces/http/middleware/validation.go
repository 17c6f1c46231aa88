package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/settings"
	"github.com/Allanfoulo/sagebridge-app-sub001/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report JSON field names and
// registers the custom tags used by request DTOs:
//
//	currency  ISO 4217 code, case-insensitive
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	v.RegisterTagNameFunc(fieldName)
	return v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		_, err := settings.NormalizeCurrency(fl.Field().String())
		return err == nil
	})
}

// fieldName is the first of the json, form or uri names a field declares
func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		}
		return name
	}
	return ""
}

// FormatValidationErrors turns binding errors into a validation envelope.
// Anything other than field failures (malformed JSON, wrong types) yields a
// message without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewValidationErrorResponse("Malformed request: "+err.Error(), requestID, nil)
	}
	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 validation envelope
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

var fixedMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"e164":     "Must be an E.164 phone number",
	"datetime": "Must be a date in YYYY-MM-DD format",
	"currency": "Must be a 3-letter ISO 4217 currency code",
}

var paramMessages = map[string]string{
	"oneof": "Must be one of: %s",
	"gt":    "Must be greater than %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be at most %s",
}

func describe(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}
	bound := map[string]string{"min": "at least", "max": "at most"}[fe.Tag()]
	if bound == "" {
		return "Invalid value"
	}
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
	case reflect.Slice:
		return fmt.Sprintf("Must contain %s %s items", bound, fe.Param())
	}
	return fmt.Sprintf("Must be %s %s", bound, fe.Param())
}
