package shared

import (
	"context"
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/domain/company"
	"jobfair-booking/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Companies() CompanyRepository
	Users() UserRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	// LockUserBookings serializes quota checks for one user within the
	// transaction so two racing Book calls cannot both pass the count.
	LockUserBookings(ctx context.Context, userID uuid.UUID) error
}

type CommandReads interface {
	CompanyByID(ctx context.Context, id uuid.UUID) (*CompanySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	// HasReservation checks the company ledger for a (date, slot) pair.
	HasReservation(ctx context.Context, companyID uuid.UUID, date time.Time, slotID string) (bool, error)
	// CountActiveBookings counts live bookings owned by the user.
	CountActiveBookings(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Minimal snapshots for command read operations
type CompanySnapshot struct {
	ID          uuid.UUID
	Name        string
	Description string
	Address     string
	Tel         string
	Website     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BookingSnapshot struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
	ApptDate  time.Time
	TimeSlot  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserSnapshot struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Tel      string
	Role     string
	IsActive bool
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCompany(ctx context.Context, companyID uuid.UUID) (int64, error)
}

type CompanyRepository interface {
	Create(ctx context.Context, c *company.Company) error
	UpdateProfile(ctx context.Context, c *company.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddReservation inserts a ledger pair; a concurrent duplicate insert
	// fails with KindDuplicateKey from the unique index.
	AddReservation(ctx context.Context, companyID uuid.UUID, date time.Time, slotID string) error
	// RemoveReservation deletes a ledger pair; removing an absent pair is
	// a no-op.
	RemoveReservation(ctx context.Context, companyID uuid.UUID, date time.Time, slotID string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateProfile(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
