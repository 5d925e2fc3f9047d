package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/pulse/internal/cache"
	"github.com/smallbiznis/pulse/internal/client"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/config"
	"github.com/smallbiznis/pulse/internal/metrics"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
	"github.com/smallbiznis/pulse/internal/observability"
	obsmiddleware "github.com/smallbiznis/pulse/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/pulse/internal/observability/metrics"
	obstracing "github.com/smallbiznis/pulse/internal/observability/tracing"
	"github.com/smallbiznis/pulse/internal/plan"
	plandomain "github.com/smallbiznis/pulse/internal/plan/domain"
	"github.com/smallbiznis/pulse/internal/product"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"github.com/smallbiznis/pulse/internal/transaction"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	cache.Module,
	client.Module,
	metrics.Module,
	plan.Module,
	product.Module,
	transaction.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	clientSvc      clientdomain.Service
	productSvc     productdomain.Service
	transactionSvc transactiondomain.Service
	planSvc        plandomain.Service
	metricsSvc     metricsdomain.Service
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	ClientSvc      clientdomain.Service
	ProductSvc     productdomain.Service
	TransactionSvc transactiondomain.Service
	PlanSvc        plandomain.Service
	MetricsSvc     metricsdomain.Service
	ObsMetrics     *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		clientSvc:      p.ClientSvc,
		productSvc:     p.ProductSvc,
		transactionSvc: p.TransactionSvc,
		planSvc:        p.PlanSvc,
		metricsSvc:     p.MetricsSvc,
		obsMetrics:     p.ObsMetrics,
	}

	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.OrgContext())

	// -------- Metrics --------
	admin.GET("/metrics/overview", s.GetMetricsOverview)
	admin.GET("/metrics/mrr", s.GetMRR)
	admin.GET("/metrics/history/mrr", s.GetMRRHistory)
	admin.GET("/metrics/history/churn", s.GetChurnHistory)
	admin.GET("/metrics/history/revenue", s.GetRevenueHistory)

	// -------- Clients --------
	admin.GET("/clients", s.ListClients)
	admin.POST("/clients", s.CreateClient)
	admin.GET("/clients/ltv-ranking", s.GetClientLTVRanking)
	admin.GET("/clients/:id", s.GetClientByID)
	admin.PATCH("/clients/:id", s.UpdateClient)
	admin.POST("/clients/:id/churn", s.ChurnClient)
	admin.POST("/clients/:id/reactivate", s.ReactivateClient)
	admin.GET("/clients/:id/addons", s.ListClientAddons)
	admin.POST("/clients/:id/addons", s.AddClientAddon)
	admin.POST("/clients/:id/addons/:addon_id/cancel", s.CancelClientAddon)
	admin.POST("/clients/:id/addons/:addon_id/reactivate", s.ReactivateClientAddon)

	// -------- Products --------
	admin.GET("/products", s.ListProducts)
	admin.POST("/products", s.CreateProduct)
	admin.GET("/products/:id", s.GetProductByID)
	admin.PATCH("/products/:id", s.UpdateProduct)

	// -------- Transactions --------
	admin.GET("/transactions", s.ListTransactions)
	admin.POST("/transactions", s.CreateTransaction)
	admin.DELETE("/transactions/:id", s.DeleteTransaction)
	admin.GET("/expenses", s.ListExpenses)

	// -------- Plans --------
	admin.GET("/plans", s.ListPlans)
	admin.POST("/plans", s.CreatePlan)
	admin.GET("/plans/:id", s.GetPlanByID)
	admin.PATCH("/plans/:id", s.UpdatePlan)
	admin.DELETE("/plans/:id", s.DeletePlan)
}
