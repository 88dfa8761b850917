package response

import (
	"time"

	"jobfair-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CompanyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Tel         string    `json:"tel"`
	Website     string    `json:"website"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromCompanyView(view *queries.CompanyView) *CompanyResponse {
	var resp CompanyResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromCompanyViews(views []*queries.CompanyView) []*CompanyResponse {
	resps := make([]*CompanyResponse, 0, len(views))
	for _, view := range views {
		resps = append(resps, FromCompanyView(view))
	}
	return resps
}
