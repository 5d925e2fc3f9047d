package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
)

func (s *Server) GetMetricsOverview(c *gin.Context) {
	var query struct {
		Start string `form:"start"`
		End   string `form:"end"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	start, err := parseOptionalTime(query.Start, false)
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "invalid start"))
		return
	}
	end, err := parseOptionalTime(query.End, true)
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "invalid end"))
		return
	}

	resp, err := s.metricsSvc.GetOverview(c.Request.Context(), metricsdomain.OverviewRequest{
		Start: start,
		End:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMRR(c *gin.Context) {
	at, err := parseOptionalTime(c.Query("at"), false)
	if err != nil {
		AbortWithError(c, newValidationError("at", "invalid_at", "invalid at"))
		return
	}

	resp, err := s.metricsSvc.GetMRR(c.Request.Context(), metricsdomain.MRRRequest{At: at})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMRRHistory(c *gin.Context) {
	req, ok := s.bindHistoryRequest(c)
	if !ok {
		return
	}

	resp, err := s.metricsSvc.GetMRRHistory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetChurnHistory(c *gin.Context) {
	req, ok := s.bindHistoryRequest(c)
	if !ok {
		return
	}

	resp, err := s.metricsSvc.GetChurnHistory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRevenueHistory(c *gin.Context) {
	req, ok := s.bindHistoryRequest(c)
	if !ok {
		return
	}

	resp, err := s.metricsSvc.GetRevenueHistory(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientLTVRanking(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		SortBy string `form:"sort_by"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.metricsSvc.RankClientsByLTV(c.Request.Context(), metricsdomain.RankRequest{
		Status: strings.TrimSpace(query.Status),
		SortBy: strings.TrimSpace(query.SortBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) bindHistoryRequest(c *gin.Context) (metricsdomain.HistoryRequest, bool) {
	var query struct {
		Start string `form:"start"`
		End   string `form:"end"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return metricsdomain.HistoryRequest{}, false
	}

	start, err := parseOptionalTime(query.Start, false)
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "invalid start"))
		return metricsdomain.HistoryRequest{}, false
	}
	end, err := parseOptionalTime(query.End, true)
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "invalid end"))
		return metricsdomain.HistoryRequest{}, false
	}

	return metricsdomain.HistoryRequest{Start: start, End: end}, true
}
