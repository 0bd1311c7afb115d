package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/cavy-ledger/api/swagger"
	"github.com/noah-isme/cavy-ledger/internal/handler"
	"github.com/noah-isme/cavy-ledger/internal/middleware"
	"github.com/noah-isme/cavy-ledger/internal/service"
	"github.com/noah-isme/cavy-ledger/pkg/logger"
	corsmiddleware "github.com/noah-isme/cavy-ledger/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cavy-ledger/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler mounted by the router.
type Handlers struct {
	Dashboard     *handler.DashboardHandler
	Stock         *handler.StockHandler
	Births        *handler.BirthHandler
	Records       *handler.RecordHandler
	Reports       *handler.ReportHandler
	Maintenance   *handler.MaintenanceHandler
	Notifications *handler.NotificationHandler
	Metrics       *handler.MetricsHandler
}

// Options configures router-wide middleware.
type Options struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	AllowedOrigins []string
	EnableDocs     bool
}

// NewRouter wires middleware and routes.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger, "/health", "/metrics"))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(opts.Metrics))

	r.GET("/", h.Dashboard.Index)

	stock := r.Group("/stock")
	{
		stock.GET("/new", h.Stock.New)
		stock.POST("/new", h.Stock.Create)
		stock.GET("/:id/edit", h.Stock.Edit)
		stock.POST("/:id/edit", h.Stock.Update)
	}

	births := r.Group("/births")
	{
		births.GET("", h.Births.View)
		births.POST("", h.Births.Submit)
		births.GET("/search", h.Births.Search)
		births.GET("/:id/edit", h.Births.Edit)
		births.POST("/:id/edit", h.Births.Update)
	}

	r.GET("/weaning", h.Records.WeaningView)
	r.POST("/weaning", h.Records.Weaning)
	r.GET("/deaths", h.Records.DeathView)
	r.POST("/deaths", h.Records.Death)
	r.GET("/sales", h.Records.SaleView)
	r.POST("/sales", h.Records.Sale)
	r.GET("/expenses", h.Records.ExpenseView)
	r.POST("/expenses", h.Records.Expense)

	r.GET("/report", h.Reports.Report)
	r.GET("/results", h.Reports.Report)
	r.GET("/report.csv", h.Reports.MonthlyCSV)
	r.GET("/projections", h.Reports.Projections)
	r.GET("/balance", h.Reports.Balance)
	r.GET("/balance.pdf", h.Reports.BalancePDF)

	r.POST("/delete-all", h.Maintenance.DeleteAll)
	r.GET("/export.xlsx", h.Maintenance.Export)
	r.GET("/health", h.Maintenance.Health)

	api := r.Group("/api/notifications")
	{
		api.GET("", h.Notifications.List)
		api.POST("/:id/read", h.Notifications.MarkRead)
		api.POST("/read-all", h.Notifications.MarkAllRead)
		api.POST("/generate", h.Notifications.Generate)
	}

	r.GET("/metrics", h.Metrics.Prometheus)

	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
