package models

import "encoding/json"

// AnalyzeProductRequest is the payload for the browser-backed endpoints
// (analyze-and-extract-product-data, validate-product-page,
// scrape-product-data). Field names follow the frontend contract.
type AnalyzeProductRequest struct {
	// URL is the product page to analyze. Required, must parse as a URL.
	URL string `json:"url" binding:"required,url"`

	// Cookies is accepted for forward compatibility and currently unused.
	Cookies json.RawMessage `json:"cookies,omitempty"`

	// CountryCode selects the residential proxy exit country.
	CountryCode string `json:"countryCode" binding:"required"`

	// UserAgent is passed to the browser as a launch argument. A second,
	// fixed user agent is force-set on the page regardless.
	UserAgent string `json:"userAgent" binding:"required"`

	// Locale is part of the browsing-context profile; not consumed by the
	// fetch path today.
	Locale string `json:"locale" binding:"required"`

	// TimezoneID is part of the browsing-context profile; not consumed by
	// the fetch path today.
	TimezoneID string `json:"timezoneId" binding:"required"`

	// Geolocation is accepted for forward compatibility and currently unused.
	Geolocation json.RawMessage `json:"geolocation,omitempty"`

	// AcceptLanguage is part of the browsing-context profile; not consumed
	// by the fetch path today.
	AcceptLanguage string `json:"acceptLanguage" binding:"required"`
}

// HTMLRequest is the payload for the *-from-html endpoints, which skip the
// browser and analyze caller-provided markup directly.
type HTMLRequest struct {
	// HTML is the rendered page markup. Required, must not be blank.
	HTML string `json:"html" binding:"required"`
}
