package company

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidName        = errors.New("name must be 1 to 50 characters")
	ErrDescriptionTooLong = errors.New("description cannot be more than 500 characters")
	ErrInvalidAddress     = errors.New("address must not be empty")
	ErrInvalidTel         = errors.New("telephone must be 9 to 10 digits")
	ErrInvalidWebsite     = errors.New("website must not be empty")
)

var telRegex = regexp.MustCompile(`^[0-9]{9,10}$`)

const (
	maxNameLen        = 50
	maxDescriptionLen = 500
)

// Company aggregate: identity and contact fields. Reserved (date, slot)
// pairs live in the Ledger, loaded separately by the read side.
type Company struct {
	id          uuid.UUID
	name        string
	description string
	address     string
	tel         string
	website     string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCompany(name, description, address, tel, website string) (*Company, error) {
	c := &Company{
		id: uuid.New(),
	}
	if err := c.setProfile(name, description, address, tel, website); err != nil {
		return nil, err
	}
	return c, nil
}

func ReconstructCompany(
	id uuid.UUID,
	name, description, address, tel, website string,
	createdAt, updatedAt time.Time,
) *Company {
	return &Company{
		id:          id,
		name:        name,
		description: description,
		address:     address,
		tel:         tel,
		website:     website,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// UpdateProfile replaces the contact fields.
func (c *Company) UpdateProfile(name, description, address, tel, website string) error {
	return c.setProfile(name, description, address, tel, website)
}

func (c *Company) setProfile(name, description, address, tel, website string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLen {
		return ErrInvalidName
	}
	if len(description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrInvalidAddress
	}
	if !telRegex.MatchString(strings.TrimSpace(tel)) {
		return ErrInvalidTel
	}
	website = strings.TrimSpace(website)
	if website == "" {
		return ErrInvalidWebsite
	}

	c.name = name
	c.description = description
	c.address = address
	c.tel = strings.TrimSpace(tel)
	c.website = website
	return nil
}

func (c *Company) ID() uuid.UUID        { return c.id }
func (c *Company) Name() string         { return c.name }
func (c *Company) Description() string  { return c.description }
func (c *Company) Address() string      { return c.address }
func (c *Company) Tel() string          { return c.tel }
func (c *Company) Website() string      { return c.website }
func (c *Company) CreatedAt() time.Time { return c.createdAt }
func (c *Company) UpdatedAt() time.Time { return c.updatedAt }
