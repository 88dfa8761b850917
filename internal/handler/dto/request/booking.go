package request

import (
	"time"

	"github.com/google/uuid"
)

const apptDateLayout = "2006-01-02"

type CreateBookingRequest struct {
	CompanyID uuid.UUID `json:"companyId" binding:"required"`
	ApptDate  string    `json:"apptDate" binding:"required"`
	TimeSlot  string    `json:"timeSlot" binding:"required"`
}

func (r *CreateBookingRequest) ParseApptDate() (time.Time, error) {
	return time.Parse(apptDateLayout, r.ApptDate)
}

// UpdateBookingRequest: omitted fields keep their current value.
type UpdateBookingRequest struct {
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
	ApptDate  *string    `json:"apptDate,omitempty"`
	TimeSlot  *string    `json:"timeSlot,omitempty"`
}

func (r *UpdateBookingRequest) ParseApptDate() (*time.Time, error) {
	if r.ApptDate == nil {
		return nil, nil
	}
	t, err := time.Parse(apptDateLayout, *r.ApptDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
