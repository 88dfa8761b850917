//go:build unit || e2e

package builder

import (
	"jobfair-booking/internal/domain/company"
)

type CompanyBuilder struct {
	Name        string
	Description string
	Address     string
	Tel         string
	Website     string
}

func NewCompanyBuilder() *CompanyBuilder {
	return &CompanyBuilder{
		Name:        "Acme Robotics",
		Description: "Industrial automation and robotics.",
		Address:     "1-2-3 Shibaura, Minato-ku, Tokyo",
		Tel:         "0312345678",
		Website:     "https://acme.example.com",
	}
}

func (b *CompanyBuilder) With(mutate func(*CompanyBuilder)) *CompanyBuilder {
	mutate(b)
	return b
}

func (b *CompanyBuilder) BuildDomain() (*company.Company, error) {
	return company.NewCompany(b.Name, b.Description, b.Address, b.Tel, b.Website)
}
