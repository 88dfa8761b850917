//go:build e2e

package booking_test

import (
	"context"
	"fmt"
	"net/http"
	stdhttptest "net/http/httptest"
	"testing"
	"time"

	"jobfair-booking/tests/common/dbtest"
	"jobfair-booking/tests/common/httptest"
	"jobfair-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingE2ESuite struct {
	e2e.SharedSuite
}

func TestBookingE2E(t *testing.T) {
	suite.Run(t, new(BookingE2ESuite))
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type bookingResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"companyId"`
	CompanyName string    `json:"companyName"`
	UserName    string    `json:"userName"`
	ApptDate    string    `json:"apptDate"`
	TimeSlot    string    `json:"timeSlot"`
}

type slotsResponse struct {
	CompanyID uuid.UUID `json:"companyId"`
	Date      string    `json:"date"`
	Slots     []string  `json:"slots"`
}

// registerAndLogin creates an account through the API and returns its token.
func (s *BookingE2ESuite) registerAndLogin(email string) string {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "E2E User",
		"email":    email,
		"tel":      "0312345678",
		"password": dbtest.TestPassword,
	}, "")
	require.Equal(s.T(), http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	return s.login(email)
}

func (s *BookingE2ESuite) login(email string) string {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    email,
		"password": dbtest.TestPassword,
	}, "")
	require.Equal(s.T(), http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp tokenResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	require.NotEmpty(s.T(), resp.AccessToken)
	return resp.AccessToken
}

// adminToken seeds an admin directly and logs in through the API.
func (s *BookingE2ESuite) adminToken() string {
	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", "admin")
	return s.login("admin@example.com")
}

func (s *BookingE2ESuite) createCompany(adminToken, name string) uuid.UUID {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/companies", map[string]any{
		"name":    name,
		"address": "1-2-3 Chiyoda",
		"tel":     "0312345678",
		"website": "https://example.com",
	}, adminToken)
	require.Equal(s.T(), http.StatusCreated, w.Code, "create company failed: %s", w.Body.String())

	var resp struct {
		ID uuid.UUID `json:"id"`
	}
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
	return resp.ID
}

func (s *BookingE2ESuite) book(token string, companyID uuid.UUID, date, slot string) *bookingResponse {
	w := s.tryBook(token, companyID, date, slot)
	require.Equal(s.T(), http.StatusCreated, w.Code, "book failed: %s", w.Body.String())

	var resp bookingResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
	return &resp
}

func (s *BookingE2ESuite) tryBook(token string, companyID uuid.UUID, date, slot string) *stdhttptest.ResponseRecorder {
	return httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/bookings", map[string]any{
		"companyId": companyID,
		"apptDate":  date,
		"timeSlot":  slot,
	}, token)
}

func (s *BookingE2ESuite) availableSlots(token string, companyID uuid.UUID, date string) []string {
	path := fmt.Sprintf("/api/bookings/available-slots?companyId=%s&date=%s", companyID, date)
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, token)

	var resp slotsResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	return resp.Slots
}

// ------------------------------------------------------------
// tests
// ------------------------------------------------------------

func (s *BookingE2ESuite) TestBookingLifecycle() {
	s.Run("book, reschedule and cancel through the API", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		require.Len(s.T(), s.availableSlots(token, companyID, "2022-05-10"), 8)

		created := s.book(token, companyID, "2022-05-10", "10:00-11:00")
		require.Equal(s.T(), "2022-05-10", created.ApptDate)
		require.Equal(s.T(), "10:00-11:00", created.TimeSlot)
		require.Equal(s.T(), "Acme Corp", created.CompanyName)

		slots := s.availableSlots(token, companyID, "2022-05-10")
		require.Len(s.T(), slots, 7)
		require.NotContains(s.T(), slots, "10:00-11:00")

		// Reschedule to another slot on another day.
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, "/api/bookings/"+created.ID.String(), map[string]any{
			"apptDate": "2022-05-11",
			"timeSlot": "14:00-15:00",
		}, token)
		var moved bookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &moved)
		require.Equal(s.T(), "2022-05-11", moved.ApptDate)
		require.Equal(s.T(), "14:00-15:00", moved.TimeSlot)

		// The old slot is free again, the new one is taken.
		require.Contains(s.T(), s.availableSlots(token, companyID, "2022-05-10"), "10:00-11:00")
		require.NotContains(s.T(), s.availableSlots(token, companyID, "2022-05-11"), "14:00-15:00")

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/bookings/"+created.ID.String(), nil, token)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)

		require.Len(s.T(), s.availableSlots(token, companyID, "2022-05-11"), 8)
		require.Equal(s.T(), 0, dbtest.CountRows(s.T(), s.DB, "bookings"))
		require.Equal(s.T(), 0, dbtest.CountRows(s.T(), s.DB, "company_slots"))
	})

	s.Run("booking enqueues a confirmation notification", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		s.book(token, companyID, "2022-05-10", "09:00-10:00")

		// The dispatcher polls the outbox, so give it a moment.
		require.Eventually(s.T(), func() bool {
			var n int
			err := s.DB.QueryRow(context.Background(),
				"SELECT COUNT(*) FROM notification_jobs WHERE topic = 'booking_confirmed'").Scan(&n)
			return err == nil && n == 1
		}, 3*time.Second, 50*time.Millisecond, "confirmation job never appeared")
	})
}

func (s *BookingE2ESuite) TestBookingConflicts() {
	s.Run("second user cannot take an occupied slot", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		alice := s.registerAndLogin("alice@example.com")
		bob := s.registerAndLogin("bob@example.com")

		s.book(alice, companyID, "2022-05-10", "09:00-10:00")

		w := s.tryBook(bob, companyID, "2022-05-10", "09:00-10:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "already booked")
	})

	s.Run("same slot is independent across days and companies", func() {
		admin := s.adminToken()
		first := s.createCompany(admin, "Acme Corp")
		second := s.createCompany(admin, "Globex")
		alice := s.registerAndLogin("alice@example.com")
		bob := s.registerAndLogin("bob@example.com")

		s.book(alice, first, "2022-05-10", "09:00-10:00")
		s.book(bob, first, "2022-05-11", "09:00-10:00")
		s.book(bob, second, "2022-05-10", "09:00-10:00")
	})
}

func (s *BookingE2ESuite) TestBookingQuota() {
	s.Run("fourth active booking is rejected", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		s.book(token, companyID, "2022-05-10", "09:00-10:00")
		s.book(token, companyID, "2022-05-10", "10:00-11:00")
		s.book(token, companyID, "2022-05-10", "11:00-12:00")

		w := s.tryBook(token, companyID, "2022-05-10", "12:00-13:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "limit")
	})

	s.Run("cancelling frees quota", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		first := s.book(token, companyID, "2022-05-10", "09:00-10:00")
		s.book(token, companyID, "2022-05-10", "10:00-11:00")
		s.book(token, companyID, "2022-05-10", "11:00-12:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/bookings/"+first.ID.String(), nil, token)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)

		s.book(token, companyID, "2022-05-10", "12:00-13:00")
	})

	s.Run("admins are exempt from the quota", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")

		for _, slot := range []string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"} {
			s.book(admin, companyID, "2022-05-10", slot)
		}
	})
}

func (s *BookingE2ESuite) TestBookingValidation() {
	s.Run("dates outside the campaign window are rejected", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		for _, date := range []string{"2022-05-09", "2022-05-14"} {
			w := s.tryBook(token, companyID, date, "09:00-10:00")
			httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "campaign")
		}
	})

	s.Run("unknown time slots are rejected", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		w := s.tryBook(token, companyID, "2022-05-10", "17:00-18:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.Run("booking an unknown company is not found", func() {
		token := s.registerAndLogin("alice@example.com")

		w := s.tryBook(token, uuid.New(), "2022-05-10", "09:00-10:00")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})
}

func (s *BookingE2ESuite) TestBookingAccess() {
	s.Run("users cannot read or cancel other users' bookings", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		alice := s.registerAndLogin("alice@example.com")
		bob := s.registerAndLogin("bob@example.com")

		created := s.book(alice, companyID, "2022-05-10", "09:00-10:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/bookings/"+created.ID.String(), nil, bob)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/bookings/"+created.ID.String(), nil, bob)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")
	})

	s.Run("admins may manage any booking", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		alice := s.registerAndLogin("alice@example.com")

		created := s.book(alice, companyID, "2022-05-10", "09:00-10:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/bookings/"+created.ID.String(), nil, admin)
		var got bookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &got)
		require.Equal(s.T(), created.ID, got.ID)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/bookings/"+created.ID.String(), nil, admin)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("listing only returns the caller's bookings", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		alice := s.registerAndLogin("alice@example.com")
		bob := s.registerAndLogin("bob@example.com")

		s.book(alice, companyID, "2022-05-10", "09:00-10:00")
		s.book(bob, companyID, "2022-05-10", "10:00-11:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/bookings", nil, alice)
		var own []bookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &own)
		require.Len(s.T(), own, 1)
		require.Equal(s.T(), "09:00-10:00", own[0].TimeSlot)

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/bookings", nil, admin)
		var all []bookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &all)
		require.Len(s.T(), all, 2)
	})

	s.Run("company management requires the admin role", func() {
		token := s.registerAndLogin("alice@example.com")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/companies", map[string]any{
			"name":    "Acme Corp",
			"address": "1-2-3 Chiyoda",
			"tel":     "0312345678",
			"website": "https://example.com",
		}, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")
	})

	s.Run("requests without a token are rejected", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/bookings", nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")
	})
}

func (s *BookingE2ESuite) TestCompanyDeletionCascades() {
	s.Run("deleting a company removes its bookings and ledger rows", func() {
		admin := s.adminToken()
		companyID := s.createCompany(admin, "Acme Corp")
		token := s.registerAndLogin("alice@example.com")

		s.book(token, companyID, "2022-05-10", "09:00-10:00")
		s.book(token, companyID, "2022-05-11", "09:00-10:00")

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodDelete, "/api/companies/"+companyID.String(), nil, admin)
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)

		require.Equal(s.T(), 0, dbtest.CountRows(s.T(), s.DB, "bookings"))
		require.Equal(s.T(), 0, dbtest.CountRows(s.T(), s.DB, "company_slots"))
	})
}
