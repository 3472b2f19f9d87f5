package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/shopsight/models"
	"github.com/use-agent/shopsight/selectors"
)

// bindHTML binds an HTMLRequest and rejects blank markup.
func bindHTML(c *gin.Context) (models.HTMLRequest, bool) {
	var req models.HTMLRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	if strings.TrimSpace(req.HTML) == "" {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Message: "Invalid request payload",
			Issues:  []models.Issue{{Field: "html", Message: "must not be blank"}},
		})
		return req, false
	}
	return req, true
}

// ValidateProductPageFromHTML returns the handler for
// POST /validate-product-page-from-html, which skips the browser and
// validates caller-provided markup directly.
func ValidateProductPageFromHTML(extractor Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindHTML(c)
		if !ok {
			return
		}

		verdict, err := extractor.ValidatePage(c.Request.Context(), req.HTML)
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

// ScrapeProductDataFromHTML returns the handler for
// POST /scrape-product-data-from-html.
//
// After the remote extraction, CSS selectors for each field are discovered
// in the markup and the values re-extracted through them. The selector-
// extracted value wins when present (it can be replayed later without
// another extraction call); the remote value is the fallback.
func ScrapeProductDataFromHTML(extractor Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindHTML(c)
		if !ok {
			return
		}

		product, err := extractor.ScrapeProduct(c.Request.Context(), req.HTML)
		if err != nil {
			respondError(c, err, "Failed to scrape product data")
			return
		}

		sel, err := selectors.Find(req.HTML, product.Title, product.PriceValue, product.Currency)
		if err != nil {
			respondError(c, models.NewTaggedError(models.ErrCodeInternal, "selector discovery failed", err), "Failed to scrape product data")
			return
		}

		values, err := selectors.Extract(req.HTML, sel)
		if err != nil {
			respondError(c, models.NewTaggedError(models.ErrCodeInternal, "selector extraction failed", err), "Failed to scrape product data")
			return
		}

		if sel.Title != "" && sel.Price != "" && sel.Currency != "" {
			comparison := selectors.Compare(values, product.Title, product.PriceValue, product.Currency)
			if !comparison.AllMatch {
				slog.Warn("selector values disagree with extraction values",
					"title_match", comparison.Title,
					"price_match", comparison.Price,
					"currency_match", comparison.Currency,
				)
			}
		} else {
			slog.Warn("not all selectors were found, skipping comparison")
		}

		c.JSON(http.StatusOK, models.SuccessResponse{
			Data: models.ScrapedProduct{
				Title:    scrapedField(values.Title, product.Title, sel.Title),
				Price:    scrapedField(values.Price, product.PriceValue, sel.Price),
				Currency: scrapedField(values.Currency, product.Currency, sel.Currency),
			},
			Message: "Product data scraped successfully",
		})
	}
}

func scrapedField(extracted, fallback, selector string) models.ScrapedField {
	value := extracted
	if value == "" {
		value = fallback
	}
	return models.ScrapedField{Value: value, Selector: selector}
}
