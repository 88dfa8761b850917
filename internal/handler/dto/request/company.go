package request

type CompanyRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
	Address     string `json:"address" binding:"required"`
	Tel         string `json:"tel" binding:"required"`
	Website     string `json:"website" binding:"required"`
}

type ListCompaniesRequest struct {
	Page  int32  `form:"page,default=1"`
	Limit int32  `form:"limit,default=25"`
	Sort  string `form:"sort"`
}
