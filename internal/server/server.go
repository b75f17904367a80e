package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/dlsistemas/comisiones/internal/auth"
	authdomain "github.com/dlsistemas/comisiones/internal/auth/domain"
	"github.com/dlsistemas/comisiones/internal/backup"
	backupdomain "github.com/dlsistemas/comisiones/internal/backup/domain"
	"github.com/dlsistemas/comisiones/internal/client"
	clientdomain "github.com/dlsistemas/comisiones/internal/client/domain"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/dlsistemas/comisiones/internal/expense"
	"github.com/dlsistemas/comisiones/internal/invoice"
	invoicedomain "github.com/dlsistemas/comisiones/internal/invoice/domain"
	"github.com/dlsistemas/comisiones/internal/observability"
	obsmiddleware "github.com/dlsistemas/comisiones/internal/observability/logger"
	obsmetrics "github.com/dlsistemas/comisiones/internal/observability/metrics"
	"github.com/dlsistemas/comisiones/internal/product"
	productdomain "github.com/dlsistemas/comisiones/internal/product/domain"
	"github.com/dlsistemas/comisiones/internal/providers/pdf"
	"github.com/dlsistemas/comisiones/internal/report"
	reportdomain "github.com/dlsistemas/comisiones/internal/report/domain"
	"github.com/dlsistemas/comisiones/internal/seller"
	sellerdomain "github.com/dlsistemas/comisiones/internal/seller/domain"
	"github.com/dlsistemas/comisiones/internal/settings"
	settingsdomain "github.com/dlsistemas/comisiones/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	seller.Module,
	client.Module,
	product.Module,
	expense.Module,
	invoice.Module,
	report.Module,
	settings.Module,
	backup.Module,
	pdf.Module,
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
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	authSvc     authdomain.Service
	sellerSvc   sellerdomain.Service
	clientSvc   clientdomain.Service
	productSvc  productdomain.Service
	invoiceSvc  invoicedomain.Service
	reportSvc   reportdomain.Service
	settingsSvc settingsdomain.Service
	backupSvc   backupdomain.Service
	pdfProvider pdf.Provider
	holder      *config.CommissionConfigHolder
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	AuthSvc     authdomain.Service
	SellerSvc   sellerdomain.Service
	ClientSvc   clientdomain.Service
	ProductSvc  productdomain.Service
	InvoiceSvc  invoicedomain.Service
	ReportSvc   reportdomain.Service
	SettingsSvc settingsdomain.Service
	BackupSvc   backupdomain.Service
	PDFProvider pdf.Provider
	Holder      *config.CommissionConfigHolder
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		authSvc:     p.AuthSvc,
		sellerSvc:   p.SellerSvc,
		clientSvc:   p.ClientSvc,
		productSvc:  p.ProductSvc,
		invoiceSvc:  p.InvoiceSvc,
		reportSvc:   p.ReportSvc,
		settingsSvc: p.SettingsSvc,
		backupSvc:   p.BackupSvc,
		pdfProvider: p.PDFProvider,
		holder:      p.Holder,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.RequireAuth(), s.Logout)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.RequireAuth(), s.SellerContext())

	api.POST("/calculations", s.PreviewCalculation)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/sellers", s.ListSellers)
	api.POST("/sellers", s.CreateSeller)
	api.GET("/sellers/:id", s.GetSellerByID)
	api.PATCH("/sellers/:id", s.UpdateSeller)
	api.DELETE("/sellers/:id", s.DeleteSeller)
	api.POST("/sellers/active", s.SetActiveSeller)

	api.GET("/clients", s.ListClients)
	api.POST("/clients", s.CreateClient)
	api.GET("/clients/:id", s.GetClientByID)
	api.PATCH("/clients/:id", s.UpdateClient)
	api.DELETE("/clients/:id", s.DeleteClient)

	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.DELETE("/invoices/:id", s.DeleteInvoice)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)

	api.GET("/settings", s.GetSettings)
	api.PUT("/settings/rest-percentage", s.SetRestPercentage)
	api.GET("/settings/next-ncf", s.NextNCF)

	api.GET("/reports/breakdown", s.ReportBreakdown)
	api.GET("/reports/breakdown/pdf", s.ReportBreakdownPDF)
	api.GET("/reports/monthly", s.ReportMonthly)
	api.GET("/reports/monthly/pdf", s.ReportMonthlyPDF)
	api.GET("/reports/yearly", s.ReportYearly)
	api.GET("/reports/months", s.ReportMonthsOfYear)
	api.GET("/reports/years", s.ReportYearComparison)
	api.POST("/reports/percentage-correction", s.CorrectPercentage)

	api.GET("/backup/export", s.ExportBackup)
	api.POST("/backup/import", s.ImportBackup)
	api.POST("/backup/wipe", s.WipeData)
}
