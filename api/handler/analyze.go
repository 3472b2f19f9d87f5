package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shopsight/agentql"
	"github.com/use-agent/shopsight/models"
	"github.com/use-agent/shopsight/scraper"
)

// PageFetcher renders a page under the stealth/proxy configuration.
// Implemented by *scraper.Fetcher; stubbed in tests.
type PageFetcher interface {
	FetchHTML(ctx context.Context, params scraper.FetchParams) (string, error)
}

// Extractor runs structured-extraction queries against rendered HTML.
// Implemented by *agentql.Client; stubbed in tests.
type Extractor interface {
	AnalyzeProduct(ctx context.Context, html string) *models.ProductAnalysisResult
	ValidatePage(ctx context.Context, html string) (models.Validation, error)
	ScrapeProduct(ctx context.Context, html string) (*models.ProductData, error)
}

const analyzeMessage = "Product analysis completed successfully"

// AnalyzeProduct returns the handler for POST /analyze-and-extract-product-data.
//
// Orchestration flow:
//  1. Bind & validate the browsing-context profile (400 + issues on failure).
//  2. FetchHTML — per-request stealth browser session.
//  3. Extractor.AnalyzeProduct — remote structured extraction.
//  4. Wrap in the {data, message} envelope, always HTTP 200.
//
// Fetch and extraction failures deliberately degrade to the uniform negative
// result: the client cannot tell a navigation failure from "not a product
// page". The distinct failure kinds stay in the structured logs.
func AnalyzeProduct(fetcher PageFetcher, extractor Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeProductRequest
		if !bindJSON(c, &req) {
			return
		}

		html, err := fetcher.FetchHTML(c.Request.Context(), fetchParams(req))
		if err != nil {
			slog.Warn("page fetch failed, degrading to negative analysis",
				"url", req.URL,
				"code", models.ErrorCode(err),
				"error", err,
			)
			c.JSON(http.StatusOK, models.SuccessResponse{
				Data:    agentql.NegativeResult(),
				Message: analyzeMessage,
			})
			return
		}

		result := extractor.AnalyzeProduct(c.Request.Context(), html)
		c.JSON(http.StatusOK, models.SuccessResponse{
			Data:    result,
			Message: analyzeMessage,
		})
	}
}

// ValidateProductPage returns the handler for POST /validate-product-page.
// Unlike the analyze endpoint, fetch and extraction failures surface here as
// gateway errors.
func ValidateProductPage(fetcher PageFetcher, extractor Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeProductRequest
		if !bindJSON(c, &req) {
			return
		}

		html, err := fetcher.FetchHTML(c.Request.Context(), fetchParams(req))
		if err != nil {
			respondError(c, err, "Failed to validate product page")
			return
		}

		verdict, err := extractor.ValidatePage(c.Request.Context(), html)
		if err != nil {
			respondError(c, err, "Failed to validate product page")
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse{
			Data:    verdict,
			Message: "Product page validation completed successfully",
		})
	}
}

// ScrapeProductData returns the handler for POST /scrape-product-data.
func ScrapeProductData(fetcher PageFetcher, extractor Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeProductRequest
		if !bindJSON(c, &req) {
			return
		}

		html, err := fetcher.FetchHTML(c.Request.Context(), fetchParams(req))
		if err != nil {
			respondError(c, err, "Failed to scrape product data")
			return
		}

		product, err := extractor.ScrapeProduct(c.Request.Context(), html)
		if err != nil {
			respondError(c, err, "Failed to scrape product data")
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse{
			Data:    product,
			Message: "Product data scraped successfully",
		})
	}
}

// fetchParams maps the request profile onto the fetcher. Locale, timezone,
// accept-language, cookies and geolocation are validated but not consumed by
// the fetch path today.
func fetchParams(req models.AnalyzeProductRequest) scraper.FetchParams {
	return scraper.FetchParams{
		URL:         req.URL,
		CountryCode: req.CountryCode,
		UserAgent:   req.UserAgent,
	}
}
