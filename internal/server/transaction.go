package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
)

type createTransactionRequest struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	IsCAC       bool   `json:"is_cac"`
	OccurredAt  string `json:"occurred_at"`
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	occurredAt, err := parseOptionalTime(req.OccurredAt, false)
	if err != nil {
		AbortWithError(c, newValidationError("occurred_at", "invalid_occurred_at", "invalid occurred_at"))
		return
	}

	resp, err := s.transactionSvc.Create(c.Request.Context(), transactiondomain.CreateTransactionRequest{
		Type:        strings.TrimSpace(req.Type),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		AmountCents: req.AmountCents,
		IsCAC:       req.IsCAC,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		Type  string `form:"type"`
		IsCAC string `form:"is_cac"`
		From  string `form:"from"`
		To    string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isCAC, err := parseOptionalBool(query.IsCAC)
	if err != nil {
		AbortWithError(c, newValidationError("is_cac", "invalid_is_cac", "invalid is_cac"))
		return
	}
	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), transactiondomain.ListTransactionRequest{
		Type:  strings.TrimSpace(query.Type),
		IsCAC: isCAC,
		From:  from,
		To:    to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	err := s.transactionSvc.Delete(c.Request.Context(), transactiondomain.DeleteTransactionRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListExpenses(c *gin.Context) {
	resp, err := s.transactionSvc.ListExpenses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTransactionValidationError(err error) bool {
	switch err {
	case transactiondomain.ErrInvalidOrganization,
		transactiondomain.ErrInvalidType,
		transactiondomain.ErrInvalidAmount,
		transactiondomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
