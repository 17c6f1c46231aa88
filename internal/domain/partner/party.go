package partner

import (
	"strings"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/domain/shared"
)

// Status labels exposed to the dashboard. The label is derived from
// Party.IsActive and never stored.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// StatusLabel derives the display status from the active flag.
func StatusLabel(isActive bool) string {
	if isActive {
		return StatusActive
	}
	return StatusInactive
}

// Party holds the identification and contact columns shared by customers and suppliers
type Party struct {
	Code     string `gorm:"type:varchar(50);not null" json:"code"`
	Name     string `gorm:"type:varchar(200);not null" json:"name"`
	Email    string `gorm:"type:varchar(200);index" json:"email"`
	Phone    string `gorm:"type:varchar(50);index" json:"phone"`
	TaxID    string `gorm:"type:varchar(50)" json:"tax_id"`
	Address  string `gorm:"type:text" json:"address"`
	City     string `gorm:"type:varchar(100)" json:"city"`
	Country  string `gorm:"type:varchar(2)" json:"country"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	Notes    string `gorm:"type:text" json:"notes"`
}

// PartyDetails is the mutable part of a Party
type PartyDetails struct {
	Name    string
	Email   string
	Phone   string
	TaxID   string
	Address string
	City    string
	Country string
	Notes   string
}

func newParty(code, name string) (Party, error) {
	if err := validateCode(code); err != nil {
		return Party{}, err
	}
	if err := validateName(name); err != nil {
		return Party{}, err
	}
	return Party{
		Code:     strings.ToUpper(strings.TrimSpace(code)),
		Name:     strings.TrimSpace(name),
		IsActive: true,
	}, nil
}

// apply validates and copies details onto the party. Phone numbers are
// normalised with the phone normaliser for the party's country.
func (p *Party) apply(d PartyDetails, phones PhoneNormalizer) error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	country := strings.ToUpper(strings.TrimSpace(d.Country))
	if country != "" && len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}
	phone := strings.TrimSpace(d.Phone)
	if phone != "" && phones != nil {
		normalized, err := phones.Normalize(phone, country)
		if err != nil {
			return err
		}
		phone = normalized
	}
	if len(d.Email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	p.Name = strings.TrimSpace(d.Name)
	p.Email = strings.ToLower(strings.TrimSpace(d.Email))
	p.Phone = phone
	p.TaxID = strings.TrimSpace(d.TaxID)
	p.Address = d.Address
	p.City = d.City
	p.Country = country
	p.Notes = d.Notes
	return nil
}

// SearchFields returns the columns matched by free-text search, in display order.
func (p Party) SearchFields() []string {
	return []string{p.Name, p.Code, p.Email, p.Phone}
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
