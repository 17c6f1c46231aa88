package partner

import (
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
	"github.com/ttacon/libphonenumber"
)

// PhoneNormalizer validates a phone number and returns its canonical form.
type PhoneNormalizer interface {
	Normalize(phone, country string) (string, error)
}

// E164Normalizer parses numbers with libphonenumber and formats them as E.164.
// Numbers without a country prefix are resolved against the party country or,
// when that is empty, DefaultRegion.
type E164Normalizer struct {
	DefaultRegion string
}

// NewE164Normalizer creates a normaliser with the given fallback region
func NewE164Normalizer(defaultRegion string) *E164Normalizer {
	return &E164Normalizer{DefaultRegion: strings.ToUpper(defaultRegion)}
}

// Normalize implements PhoneNormalizer
func (n *E164Normalizer) Normalize(phone, country string) (string, error) {
	region := strings.ToUpper(country)
	if region == "" {
		region = n.DefaultRegion
	}
	parsed, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return "", shared.NewDomainError("INVALID_PHONE", "Phone number could not be parsed")
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return "", shared.NewDomainError("INVALID_PHONE", "Phone number is not valid")
	}
	return libphonenumber.Format(parsed, libphonenumber.E164), nil
}
