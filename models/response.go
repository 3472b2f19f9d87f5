package models

// Validation is the page-type verdict for a fetched page.
type Validation struct {
	// IsDetailPage reports whether the page focuses on a single product.
	IsDetailPage bool `json:"isDetailPage"`

	// Reason is a human-readable explanation of the verdict.
	Reason string `json:"reason"`
}

// ProductData holds the extracted product fields. All values are strings as
// rendered on the page; price is not parsed server-side.
type ProductData struct {
	Title      string `json:"title"`
	PriceValue string `json:"price_value"`
	Currency   string `json:"currency"`
	ImageURL   string `json:"imageUrl"`
}

// ProductAnalysisResult is the combined verdict plus optional product record.
// ProductData is nil whenever the page is not a detail page or the analysis
// failed; it is never mutated after construction.
type ProductAnalysisResult struct {
	Validation  Validation   `json:"validation"`
	ProductData *ProductData `json:"productData"`
}

// ScrapedField pairs an extracted value with the CSS selector it was
// re-verified against, for the scrape-product-data-from-html endpoint.
type ScrapedField struct {
	Value    string `json:"value"`
	Selector string `json:"selector,omitempty"`
}

// ScrapedProduct is the response data for scrape-product-data-from-html.
type ScrapedProduct struct {
	Title    ScrapedField `json:"title"`
	Price    ScrapedField `json:"price"`
	Currency ScrapedField `json:"currency"`
}

// SuccessResponse is the uniform {data, message} envelope.
type SuccessResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Issue describes a single request-validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 400 envelope.
type ValidationErrorResponse struct {
	Message string  `json:"message"`
	Issues  []Issue `json:"issues"`
}

// ErrorResponse is the envelope for unhandled failures (HTTP 500) and for
// middleware rejections.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	ActiveSessions int    `json:"active_sessions"`
	Version        string `json:"version"`
}
