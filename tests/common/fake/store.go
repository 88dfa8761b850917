//go:build unit || e2e

package fake

import (
	"context"
	"sync"
	"time"

	domainbooking "jobfair-booking/internal/domain/booking"
	"jobfair-booking/internal/domain/company"
	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ledgerKey struct {
	companyID uuid.UUID
	day       int64
	slot      string
}

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

// Store is an in-memory stand-in for the Postgres unit of work and the
// read stores. Within serializes callers on one mutex, mirroring how the
// ledger's unique constraint arbitrates racing transactions, and restores
// the previous state when the callback fails so writes stay atomic.
type Store struct {
	mu sync.Mutex

	Companies map[uuid.UUID]*shared.CompanySnapshot
	Users     map[uuid.UUID]*shared.UserSnapshot
	Bookings  map[uuid.UUID]*shared.BookingSnapshot
	Ledger    map[ledgerKey]struct{}
	Jobs      []Job

	// PasswordHashes backs FindByEmail's credential lookup.
	PasswordHashes map[uuid.UUID]string
}

func NewStore() *Store {
	return &Store{
		Companies:      make(map[uuid.UUID]*shared.CompanySnapshot),
		Users:          make(map[uuid.UUID]*shared.UserSnapshot),
		Bookings:       make(map[uuid.UUID]*shared.BookingSnapshot),
		Ledger:         make(map[ledgerKey]struct{}),
		PasswordHashes: make(map[uuid.UUID]string),
	}
}

// Seed helpers

func (s *Store) AddCompany(name string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.Companies[id] = &shared.CompanySnapshot{
		ID:      id,
		Name:    name,
		Address: "1-2-3 Test",
		Tel:     "0312345678",
		Website: "https://" + name + ".example.com",
	}
	return id
}

func (s *Store) AddUser(name, role string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.Users[id] = &shared.UserSnapshot{
		ID:       id,
		Name:     name,
		Email:    name + "@example.com",
		Tel:      "0312345678",
		Role:     role,
		IsActive: true,
	}
	return id
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Bookings)
}

// ActiveBookings counts a user's current bookings, the quantity the
// per-user quota is enforced against.
func (s *Store) ActiveBookings(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, b := range s.Bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n
}

func (s *Store) LedgerSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Ledger)
}

func (s *Store) HasLedgerPair(companyID uuid.UUID, date time.Time, slot string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Ledger[keyOf(companyID, date, slot)]
	return ok
}

// ConsistencyViolations cross-checks the booking table against the ledger:
// every booking must have exactly its ledger pair and every ledger pair a
// booking.
func (s *Store) ConsistencyViolations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var violations []string
	seen := make(map[ledgerKey]struct{}, len(s.Bookings))
	for _, b := range s.Bookings {
		k := keyOf(b.CompanyID, b.ApptDate, b.TimeSlot)
		if _, ok := s.Ledger[k]; !ok {
			violations = append(violations, "booking without ledger pair: "+b.ID.String())
		}
		if _, dup := seen[k]; dup {
			violations = append(violations, "two bookings share a ledger pair: "+b.ID.String())
		}
		seen[k] = struct{}{}
	}
	for k := range s.Ledger {
		if _, ok := seen[k]; !ok {
			violations = append(violations, "ledger pair without booking: "+k.slot)
		}
	}
	return violations
}

// shared.UnitOfWork

func (s *Store) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.snapshot()
	if err := fn(context.Background(), &fakeTx{s: s}); err != nil {
		s.restore(backup)
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &fakeReads{s: s}
}

type storeBackup struct {
	companies map[uuid.UUID]*shared.CompanySnapshot
	users     map[uuid.UUID]*shared.UserSnapshot
	bookings  map[uuid.UUID]*shared.BookingSnapshot
	ledger    map[ledgerKey]struct{}
	jobs      int
}

func (s *Store) snapshot() storeBackup {
	b := storeBackup{
		companies: make(map[uuid.UUID]*shared.CompanySnapshot, len(s.Companies)),
		users:     make(map[uuid.UUID]*shared.UserSnapshot, len(s.Users)),
		bookings:  make(map[uuid.UUID]*shared.BookingSnapshot, len(s.Bookings)),
		ledger:    make(map[ledgerKey]struct{}, len(s.Ledger)),
		jobs:      len(s.Jobs),
	}
	for k, v := range s.Companies {
		c := *v
		b.companies[k] = &c
	}
	for k, v := range s.Users {
		u := *v
		b.users[k] = &u
	}
	for k, v := range s.Bookings {
		bk := *v
		b.bookings[k] = &bk
	}
	for k := range s.Ledger {
		b.ledger[k] = struct{}{}
	}
	return b
}

func (s *Store) restore(b storeBackup) {
	s.Companies = b.companies
	s.Users = b.users
	s.Bookings = b.bookings
	s.Ledger = b.ledger
	s.Jobs = s.Jobs[:b.jobs]
}

type fakeTx struct {
	s *Store
}

func (t *fakeTx) Bookings() shared.BookingRepository           { return &fakeBookingRepo{s: t.s} }
func (t *fakeTx) Companies() shared.CompanyRepository          { return &fakeCompanyRepo{s: t.s} }
func (t *fakeTx) Users() shared.UserRepository                 { return &fakeUserRepo{s: t.s} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return &fakeNotificationRepo{s: t.s} }
func (t *fakeTx) Reads() shared.CommandReads                   { return &fakeReads{s: t.s} }

func (t *fakeTx) LockUserBookings(context.Context, uuid.UUID) error { return nil }

type fakeReads struct {
	s *Store
}

func (r *fakeReads) CompanyByID(_ context.Context, id uuid.UUID) (*shared.CompanySnapshot, error) {
	if c, ok := r.s.Companies[id]; ok {
		snap := *c
		return &snap, nil
	}
	return nil, infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	if b, ok := r.s.Bookings[id]; ok {
		snap := *b
		return &snap, nil
	}
	return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
}

func (r *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	if u, ok := r.s.Users[id]; ok {
		snap := *u
		return &snap, nil
	}
	return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
}

func (r *fakeReads) HasReservation(_ context.Context, companyID uuid.UUID, date time.Time, slotID string) (bool, error) {
	_, ok := r.s.Ledger[keyOf(companyID, date, slotID)]
	return ok, nil
}

func (r *fakeReads) CountActiveBookings(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.s.Bookings {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeBookingRepo struct {
	s *Store
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domainbooking.Booking) error {
	r.s.Bookings[b.ID()] = &shared.BookingSnapshot{
		ID:        b.ID(),
		CompanyID: b.CompanyID(),
		UserID:    b.UserID(),
		ApptDate:  b.ApptDate(),
		TimeSlot:  b.TimeSlot(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *domainbooking.Booking) error {
	existing, ok := r.s.Bookings[b.ID()]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.s.Bookings[b.ID()] = &shared.BookingSnapshot{
		ID:        b.ID(),
		CompanyID: b.CompanyID(),
		UserID:    b.UserID(),
		ApptDate:  b.ApptDate(),
		TimeSlot:  b.TimeSlot(),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.Bookings[id]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	delete(r.s.Bookings, id)
	return nil
}

func (r *fakeBookingRepo) DeleteByCompany(_ context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	for id, b := range r.s.Bookings {
		if b.CompanyID == companyID {
			delete(r.s.Bookings, id)
			n++
		}
	}
	return n, nil
}

type fakeCompanyRepo struct {
	s *Store
}

func (r *fakeCompanyRepo) Create(_ context.Context, c *company.Company) error {
	for _, existing := range r.s.Companies {
		if existing.Name == c.Name() {
			return infra.WrapRepoErr("duplicate company name", nil, infra.KindDuplicateKey)
		}
	}
	r.s.Companies[c.ID()] = &shared.CompanySnapshot{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Address:     c.Address(),
		Tel:         c.Tel(),
		Website:     c.Website(),
	}
	return nil
}

func (r *fakeCompanyRepo) UpdateProfile(_ context.Context, c *company.Company) error {
	existing, ok := r.s.Companies[c.ID()]
	if !ok {
		return infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
	}
	existing.Name = c.Name()
	existing.Description = c.Description()
	existing.Address = c.Address()
	existing.Tel = c.Tel()
	existing.Website = c.Website()
	return nil
}

func (r *fakeCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.Companies[id]; !ok {
		return infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
	}
	delete(r.s.Companies, id)
	// company_slots rows cascade with the company row
	for k := range r.s.Ledger {
		if k.companyID == id {
			delete(r.s.Ledger, k)
		}
	}
	return nil
}

func (r *fakeCompanyRepo) AddReservation(_ context.Context, companyID uuid.UUID, date time.Time, slotID string) error {
	k := keyOf(companyID, date, slotID)
	if _, taken := r.s.Ledger[k]; taken {
		return infra.WrapRepoErr("duplicate ledger pair", nil, infra.KindDuplicateKey)
	}
	r.s.Ledger[k] = struct{}{}
	return nil
}

func (r *fakeCompanyRepo) RemoveReservation(_ context.Context, companyID uuid.UUID, date time.Time, slotID string) error {
	delete(r.s.Ledger, keyOf(companyID, date, slotID))
	return nil
}

type fakeUserRepo struct {
	s *Store
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.s.Users {
		if existing.Email == u.Email().Value() {
			return infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)
		}
	}
	r.s.Users[u.ID()] = &shared.UserSnapshot{
		ID:       u.ID(),
		Name:     u.Name(),
		Email:    u.Email().Value(),
		Tel:      u.Tel().Value(),
		Role:     u.Role().String(),
		IsActive: u.IsActive(),
	}
	r.s.PasswordHashes[u.ID()] = u.PasswordHash()
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, u *user.User) error {
	existing, ok := r.s.Users[u.ID()]
	if !ok {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	existing.Name = u.Name()
	existing.Tel = u.Tel().Value()
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

type fakeNotificationRepo struct {
	s *Store
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.s.Jobs = append(r.s.Jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

func keyOf(companyID uuid.UUID, date time.Time, slot string) ledgerKey {
	return ledgerKey{
		companyID: companyID,
		day:       domainbooking.NormalizeDate(date).Unix(),
		slot:      slot,
	}
}

// queries.BookingReadStore

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.Bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return s.view(b), nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*queries.BookingListItem
	for _, b := range s.Bookings {
		if b.UserID == userID {
			items = append(items, s.listItem(b))
		}
	}
	return items, nil
}

func (s *Store) ListByCompany(_ context.Context, companyID uuid.UUID) ([]*queries.BookingListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*queries.BookingListItem
	for _, b := range s.Bookings {
		if b.CompanyID == companyID {
			items = append(items, s.listItem(b))
		}
	}
	return items, nil
}

func (s *Store) ListAll(_ context.Context) ([]*queries.BookingListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*queries.BookingListItem
	for _, b := range s.Bookings {
		items = append(items, s.listItem(b))
	}
	return items, nil
}

func (s *Store) ReservedSlots(_ context.Context, companyID uuid.UUID, date time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := domainbooking.NormalizeDate(date).Unix()
	var slots []string
	for k := range s.Ledger {
		if k.companyID == companyID && k.day == day {
			slots = append(slots, k.slot)
		}
	}
	return slots, nil
}

// queries.CompanyExistenceStore

func (s *Store) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.Companies[id]
	return ok, nil
}

func (s *Store) view(b *shared.BookingSnapshot) *queries.BookingView {
	view := &queries.BookingView{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		UserID:    b.UserID,
		ApptDate:  b.ApptDate,
		TimeSlot:  b.TimeSlot,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if c, ok := s.Companies[b.CompanyID]; ok {
		view.CompanyName = c.Name
		view.CompanyAddress = c.Address
		view.CompanyTel = c.Tel
		view.CompanyWebsite = c.Website
	}
	if u, ok := s.Users[b.UserID]; ok {
		view.UserName = u.Name
		view.UserEmail = u.Email
	}
	return view
}

func (s *Store) listItem(b *shared.BookingSnapshot) *queries.BookingListItem {
	item := &queries.BookingListItem{
		ID:          b.ID,
		CompanyID:   b.CompanyID,
		CompanyName: "",
		UserID:      b.UserID,
		ApptDate:    b.ApptDate,
		TimeSlot:    b.TimeSlot,
		CreatedAt:   b.CreatedAt,
	}
	if c, ok := s.Companies[b.CompanyID]; ok {
		item.CompanyName = c.Name
	}
	return item
}
