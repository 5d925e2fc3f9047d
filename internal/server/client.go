package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/pkg/db/pagination"
)

type createClientRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
	StartDate string `json:"start_date"`
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalTime(req.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}

	resp, err := s.clientSvc.Create(c.Request.Context(), clientdomain.CreateClientRequest{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		ProductID: strings.TrimSpace(req.ProductID),
		StartDate: startDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Name   string `form:"name"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListClientRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
		Name:      strings.TrimSpace(query.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientByID(c *gin.Context) {
	resp, err := s.clientSvc.GetByID(c.Request.Context(), clientdomain.GetClientRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateClientRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	ProductID *string `json:"product_id"`
	StartDate *string `json:"start_date"`
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := clientdomain.UpdateClientRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Name:      req.Name,
		Email:     req.Email,
		ProductID: req.ProductID,
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalTime(*req.StartDate, false)
		if err != nil || startDate == nil {
			AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
			return
		}
		update.StartDate = startDate
	}

	resp, err := s.clientSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type churnClientRequest struct {
	ChurnDate string `json:"churn_date"`
}

func (s *Server) ChurnClient(c *gin.Context) {
	var req churnClientRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	churnDate, err := parseOptionalTime(req.ChurnDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("churn_date", "invalid_churn_date", "invalid churn_date"))
		return
	}

	resp, err := s.clientSvc.Churn(c.Request.Context(), clientdomain.ChurnClientRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		ChurnDate: churnDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReactivateClient(c *gin.Context) {
	resp, err := s.clientSvc.Reactivate(c.Request.Context(), clientdomain.ReactivateClientRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addAddonRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"start_date"`
}

func (s *Server) AddClientAddon(c *gin.Context) {
	var req addAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	startDate, err := parseOptionalTime(req.StartDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}

	resp, err := s.clientSvc.AddAddon(c.Request.Context(), clientdomain.AddAddonRequest{
		ClientID:  strings.TrimSpace(c.Param("id")),
		ProductID: strings.TrimSpace(req.ProductID),
		Quantity:  req.Quantity,
		StartDate: startDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClientAddons(c *gin.Context) {
	resp, err := s.clientSvc.ListAddons(c.Request.Context(), clientdomain.ListAddonsRequest{
		ClientID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type cancelAddonRequest struct {
	EndDate string `json:"end_date"`
}

func (s *Server) CancelClientAddon(c *gin.Context) {
	var req cancelAddonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	endDate, err := parseOptionalTime(req.EndDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.clientSvc.CancelAddon(c.Request.Context(), clientdomain.CancelAddonRequest{
		ClientID: strings.TrimSpace(c.Param("id")),
		AddonID:  strings.TrimSpace(c.Param("addon_id")),
		EndDate:  endDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReactivateClientAddon(c *gin.Context) {
	resp, err := s.clientSvc.ReactivateAddon(c.Request.Context(), clientdomain.ReactivateAddonRequest{
		ClientID: strings.TrimSpace(c.Param("id")),
		AddonID:  strings.TrimSpace(c.Param("addon_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isClientValidationError(err error) bool {
	switch err {
	case clientdomain.ErrInvalidOrganization,
		clientdomain.ErrInvalidName,
		clientdomain.ErrInvalidStatus,
		clientdomain.ErrInvalidStartDate,
		clientdomain.ErrInvalidChurnDate,
		clientdomain.ErrInvalidQuantity,
		clientdomain.ErrInvalidProduct,
		clientdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
