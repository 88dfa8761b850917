package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"company_id"`
	CompanyName    string    `json:"company_name"`
	CompanyAddress string    `json:"company_address"`
	CompanyTel     string    `json:"company_tel"`
	CompanyWebsite string    `json:"company_website"`
	UserID         uuid.UUID `json:"user_id"`
	UserName       string    `json:"user_name"`
	UserEmail      string    `json:"user_email"`
	ApptDate       time.Time `json:"appt_date"`
	TimeSlot       string    `json:"time_slot"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	UserID      uuid.UUID `json:"user_id"`
	ApptDate    time.Time `json:"appt_date"`
	TimeSlot    string    `json:"time_slot"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompanyView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Tel         string    `json:"tel"`
	Website     string    `json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Tel      string    `json:"tel"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

// ListCompaniesParams: plain page/limit/sort listing, nothing fancier.
type ListCompaniesParams struct {
	Page  int32
	Limit int32
	Sort  string
}
