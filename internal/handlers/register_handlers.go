package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/cmd/docs"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
	"github.com/kevkotuto/freelance_backend/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// webhookRateLimit bounds webhook deliveries per source IP.
const webhookRateLimit = "120-M"

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(corsMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerWebhookRoutes(r, services.WaveWebhook, newIPRateLimit(webhookRateLimit))

	// Public authentication routes share the /api/v1 prefix without the auth middleware.
	public := r.Group("/api/v1")
	registerAuthRoutes(public, cfg, services)
	registerGoogleOAuthRoutes(public, cfg, services)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.SessionCookieName))

	registerUserRoutes(v1, service.User)
	registerCompanyRoutes(v1, service.Company)
	registerClientRoutes(v1, service.Client)
	registerProjectRoutes(v1, service.Project)
	registerTaskRoutes(v1, service.Task)
	registerTagRoutes(v1, service.Tag)
	registerTimeEntryRoutes(v1, service.TimeEntry)
	registerInvoiceRoutes(v1, service.Invoice, service.Wave)
	registerExpenseRoutes(v1, service.Expense)
	registerNotificationRoutes(v1, service.Notification, service.Activity)
	registerFileRoutes(v1, service.File, cfg.MaxUploadBytes)
	registerDashboardRoutes(v1, service.Dashboard)
	registerAssistantRoutes(v1, service.Assistant, middleware.NewUserRateLimiter(cfg.AIRequestsPerMinute))
	registerWaveRoutes(v1, service.Wave)
}

// corsMiddleware allows the frontend origin to call the API with credentials.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	origins := []string{}
	for _, o := range strings.Split(cfg.FrontendBaseURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
