package response

import (
	"time"

	"jobfair-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const apptDateLayout = "2006-01-02"

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"companyId"`
	CompanyName    string    `json:"companyName"`
	CompanyAddress string    `json:"companyAddress"`
	CompanyTel     string    `json:"companyTel"`
	CompanyWebsite string    `json:"companyWebsite"`
	UserID         uuid.UUID `json:"userId"`
	UserName       string    `json:"userName"`
	UserEmail      string    `json:"userEmail"`
	ApptDate       string    `json:"apptDate"`
	TimeSlot       string    `json:"timeSlot"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"companyId"`
	CompanyName string    `json:"companyName"`
	UserID      uuid.UUID `json:"userId"`
	ApptDate    string    `json:"apptDate"`
	TimeSlot    string    `json:"timeSlot"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AvailableSlotsResponse struct {
	CompanyID uuid.UUID `json:"companyId"`
	Date      string    `json:"date"`
	Slots     []string  `json:"slots"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	resp.ApptDate = view.ApptDate.Format(apptDateLayout)
	return &resp
}

func FromBookingListItems(items []*queries.BookingListItem) []*BookingListResponse {
	resps := make([]*BookingListResponse, 0, len(items))
	for _, item := range items {
		var resp BookingListResponse
		_ = copier.Copy(&resp, item)
		resp.ApptDate = item.ApptDate.Format(apptDateLayout)
		resps = append(resps, &resp)
	}
	return resps
}
