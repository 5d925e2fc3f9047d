package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	plandomain "github.com/smallbiznis/pulse/internal/plan/domain"
)

type createPlanRequest struct {
	Name          string `json:"name"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
	BillingPeriod string `json:"billing_period"`
	PaymentType   string `json:"payment_type"`
	Notes         string `json:"notes"`
}

func (s *Server) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Create(c.Request.Context(), plandomain.CreatePlanRequest{
		Name:          strings.TrimSpace(req.Name),
		PriceCents:    req.PriceCents,
		Currency:      strings.TrimSpace(req.Currency),
		BillingPeriod: strings.TrimSpace(req.BillingPeriod),
		PaymentType:   strings.TrimSpace(req.PaymentType),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPlans(c *gin.Context) {
	resp, err := s.planSvc.List(c.Request.Context(), plandomain.ListPlanRequest{
		Status: strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPlanByID(c *gin.Context) {
	resp, err := s.planSvc.GetByID(c.Request.Context(), plandomain.GetPlanRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePlanRequest struct {
	Name          *string `json:"name"`
	PriceCents    *int64  `json:"price_cents"`
	BillingPeriod *string `json:"billing_period"`
	PaymentType   *string `json:"payment_type"`
	Status        *string `json:"status"`
	Notes         *string `json:"notes"`
}

func (s *Server) UpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Update(c.Request.Context(), plandomain.UpdatePlanRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		Name:          req.Name,
		PriceCents:    req.PriceCents,
		BillingPeriod: req.BillingPeriod,
		PaymentType:   req.PaymentType,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePlan(c *gin.Context) {
	err := s.planSvc.Delete(c.Request.Context(), plandomain.DeletePlanRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func isPlanValidationError(err error) bool {
	switch err {
	case plandomain.ErrInvalidOrganization,
		plandomain.ErrInvalidName,
		plandomain.ErrInvalidPrice,
		plandomain.ErrInvalidBillingPeriod,
		plandomain.ErrInvalidPaymentType,
		plandomain.ErrInvalidStatus,
		plandomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
