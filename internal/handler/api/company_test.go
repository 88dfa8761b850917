//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"jobfair-booking/internal/handler/api"
	resdto "jobfair-booking/internal/handler/dto/response"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/tests/common/httptest"
	"jobfair-booking/tests/common/testutil"
	commandsmock "jobfair-booking/tests/mock/commands"
	queriesmock "jobfair-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CompanyHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCompanyCommands
	mockQueries  *queriesmock.MockCompanyQueries
	handler      *api.CompanyHandler
}

func (s *CompanyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCompanyCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCompanyQueries(s.mockCtrl)
	s.handler = api.NewCompanyHandler(s.mockCommands, s.mockQueries)

	// Admin gating is the router's job; these tests exercise the handlers.
	s.router.GET("/companies", s.handler.ListCompanies)
	s.router.GET("/companies/:id", s.handler.GetCompany)
	s.router.POST("/companies", s.handler.CreateCompany)
	s.router.PUT("/companies/:id", s.handler.UpdateCompany)
	s.router.DELETE("/companies/:id", s.handler.DeleteCompany)
}

func (s *CompanyHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCompanyHandlerSuite(t *testing.T) {
	suite.Run(t, new(CompanyHandlerTestSuite))
}

func companyView() *queries.CompanyView {
	return &queries.CompanyView{
		ID:        uuid.New(),
		Name:      "Acme Robotics",
		Address:   "1-2-3 Shibuya",
		Tel:       "0312345678",
		Website:   "https://acme.example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func (s *CompanyHandlerTestSuite) TestListCompanies() {
	s.Run("success: returns company list", func() {
		views := []*queries.CompanyView{companyView(), companyView()}
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return(views, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/companies?page=1&limit=10", nil, "")

		var body []resdto.CompanyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
	})

	s.Run("success: defaults apply without query params", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return([]*queries.CompanyView{}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/companies", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *CompanyHandlerTestSuite) TestGetCompany() {
	view := companyView()

	s.Run("success: returns the company", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/companies/"+view.ID.String(), nil, "")

		var body resdto.CompanyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.Name, body.Name)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/companies/nope", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid company ID")
	})

	s.Run("error: 404 on unknown company", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(nil, errs.ErrCompanyNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/companies/"+view.ID.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Company not found")
	})
}

func (s *CompanyHandlerTestSuite) TestCreateCompany() {
	url := "/companies"
	view := companyView()
	reqBody := map[string]any{
		"name":        "Acme Robotics",
		"description": "Industrial robots",
		"address":     "1-2-3 Shibuya",
		"tel":         "0312345678",
		"website":     "https://acme.example.com",
	}

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body resdto.CompanyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing name", mutate: testutil.Field("name", nil)},
			{name: "name too long", mutate: testutil.Field("name", strings.Repeat("a", 51))},
			{name: "description too long", mutate: testutil.Field("description", strings.Repeat("a", 501))},
			{name: "missing address", mutate: testutil.Field("address", nil)},
			{name: "missing tel", mutate: testutil.Field("tel", nil)},
			{name: "missing website", mutate: testutil.Field("website", nil)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 409 Conflict on duplicate name", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrCompanyNameTaken).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Company name already taken")
	})
}

func (s *CompanyHandlerTestSuite) TestUpdateCompany() {
	view := companyView()
	url := "/companies/" + view.ID.String()
	reqBody := map[string]any{
		"name":    "Acme Robotics",
		"address": "4-5-6 Shinjuku",
		"tel":     "0312345678",
		"website": "https://acme.example.com",
	}

	s.Run("success: updates the profile", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), view.ID, gomock.Any()).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")

		var body resdto.CompanyResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
	})

	s.Run("error: 404 on unknown company", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), view.ID, gomock.Any()).
			Return(nil, errs.ErrCompanyNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Company not found")
	})
}

func (s *CompanyHandlerTestSuite) TestDeleteCompany() {
	id := uuid.New()
	url := "/companies/" + id.String()

	s.Run("success: deletes and reports it", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), id).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("Company deleted", body["message"])
	})

	s.Run("error: 404 on unknown company", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), id).
			Return(errs.ErrCompanyNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Company not found")
	})
}
