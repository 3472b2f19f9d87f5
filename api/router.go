package api

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/use-agent/shopsight/api/handler"
	"github.com/use-agent/shopsight/api/middleware"
	"github.com/use-agent/shopsight/config"
	"github.com/use-agent/shopsight/models"
)

var tagNamesOnce sync.Once

// registerValidatorTagNames makes validator field errors report json field
// names (e.g. "url", "countryCode") instead of Go struct field names, so the
// 400 issues reference the fields the client actually sent.
func registerValidatorTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Fetcher   handler.PageFetcher
	Sessions  handler.SessionCounter
	Extractor handler.Extractor
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestLog
//	API:     Auth (if enabled) → RateLimit (if enabled)
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(deps Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidatorTagNames()

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: "Failed to analyze product",
			Error:   fmt.Sprint(recovered),
		})
	}))
	r.Use(middleware.RequestLog())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(deps.Sessions, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.Enabled {
		protected.Use(middleware.RateLimit(cfg.RateLimit))
	}

	// Browser-backed analysis.
	protected.POST("/analyze-and-extract-product-data", handler.AnalyzeProduct(deps.Fetcher, deps.Extractor))
	protected.POST("/validate-product-page", handler.ValidateProductPage(deps.Fetcher, deps.Extractor))
	protected.POST("/scrape-product-data", handler.ScrapeProductData(deps.Fetcher, deps.Extractor))

	// HTML-input variants — no browser session.
	protected.POST("/validate-product-page-from-html", handler.ValidateProductPageFromHTML(deps.Extractor))
	protected.POST("/scrape-product-data-from-html", handler.ScrapeProductDataFromHTML(deps.Extractor))

	return r
}
