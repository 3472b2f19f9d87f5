// Package agentql is a lightweight client for the AgentQL structured-
// extraction REST API. It uses net/http directly — no third-party SDK needed.
package agentql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/use-agent/shopsight/config"
	"github.com/use-agent/shopsight/models"
)

// NegativeReason is the fixed user-facing verdict used whenever the page
// cannot be analyzed. Fetch failures, remote-extraction failures and genuine
// non-detail pages all collapse into this shape at the client boundary.
const NegativeReason = "Unable to analyze page content."

// Client posts rendered HTML plus a fixed structured query to AgentQL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an AgentQL client. Pass nil to use a default http.Client
// with the configured timeout.
func NewClient(httpClient *http.Client, cfg config.AgentQLConfig) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

// queryRequest is the AgentQL query-data request body.
type queryRequest struct {
	Query  string      `json:"query"`
	HTML   string      `json:"html"`
	Params queryParams `json:"params"`
}

type queryParams struct {
	Mode string `json:"mode"`
}

// queryData is the nested payload under "data" in a query-data response.
type queryData struct {
	PageValidation *pageValidation `json:"page_validation"`
	Product        *product        `json:"product"`

	// Flat fields, populated when the validation or product query is used
	// on its own.
	IsDetailPage *bool  `json:"is_detail_page"`
	Reason       string `json:"reason"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	ImageURL     string `json:"image_url"`
}

type pageValidation struct {
	IsDetailPage bool   `json:"is_detail_page"`
	Reason       string `json:"reason"`
}

type product struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	ImageURL string `json:"image_url"`
}

type queryResponse struct {
	Data queryData `json:"data"`
}

// AnalyzeProduct runs the combined validation + product query against the
// rendered HTML. It never fails: any error is classified, logged, and folded
// into the uniform negative result, indistinguishable to the caller from
// "this really isn't a product page".
func (c *Client) AnalyzeProduct(ctx context.Context, html string) *models.ProductAnalysisResult {
	data, err := c.query(ctx, combinedQuery, html)
	if err != nil {
		slog.Error("product analysis degraded to negative result",
			"code", models.ErrorCode(err),
			"error", err,
		)
		return NegativeResult()
	}

	result := &models.ProductAnalysisResult{
		Validation: models.Validation{
			IsDetailPage: false,
			Reason:       NegativeReason,
		},
	}
	if data.PageValidation != nil {
		result.Validation.IsDetailPage = data.PageValidation.IsDetailPage
		result.Validation.Reason = data.PageValidation.Reason
	}
	if data.Product != nil {
		result.ProductData = &models.ProductData{
			Title:      data.Product.Title,
			PriceValue: data.Product.Price,
			Currency:   data.Product.Currency,
			ImageURL:   data.Product.ImageURL,
		}
	}
	return result
}

// ValidatePage runs the validation-only query. Unlike AnalyzeProduct, remote
// failures surface to the caller.
func (c *Client) ValidatePage(ctx context.Context, html string) (models.Validation, error) {
	data, err := c.query(ctx, validationQuery, html)
	if err != nil {
		return models.Validation{}, err
	}
	v := models.Validation{Reason: "Unable to determine page type."}
	if data.IsDetailPage != nil {
		v.IsDetailPage = *data.IsDetailPage
	}
	if data.Reason != "" {
		v.Reason = data.Reason
	}
	return v, nil
}

// ScrapeProduct runs the product-only query. Remote failures surface to the
// caller.
func (c *Client) ScrapeProduct(ctx context.Context, html string) (*models.ProductData, error) {
	data, err := c.query(ctx, productQuery, html)
	if err != nil {
		return nil, err
	}
	return &models.ProductData{
		Title:      data.Title,
		PriceValue: data.Price,
		Currency:   data.Currency,
		ImageURL:   data.ImageURL,
	}, nil
}

// NegativeResult is the uniform negative analysis shape.
func NegativeResult() *models.ProductAnalysisResult {
	return &models.ProductAnalysisResult{
		Validation: models.Validation{
			IsDetailPage: false,
			Reason:       NegativeReason,
		},
		ProductData: nil,
	}
}

// query posts one query-data call and decodes the nested data payload.
func (c *Client) query(ctx context.Context, query, html string) (*queryData, error) {
	bodyBytes, err := json.Marshal(queryRequest{
		Query:  query,
		HTML:   html,
		Params: queryParams{Mode: "fast"},
	})
	if err != nil {
		return nil, models.NewTaggedError(models.ErrCodeExtraction, "marshal query request", err)
	}

	endpoint := c.baseURL + "/v1/query-data"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, models.NewTaggedError(models.ErrCodeExtraction, "create query request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewTaggedError(models.ErrCodeExtraction, "extraction API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewTaggedError(models.ErrCodeExtraction, "failed to read extraction response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}

	var qr queryResponse
	if err := json.Unmarshal(respBody, &qr); err != nil {
		return nil, models.NewTaggedError(models.ErrCodeExtraction, "failed to parse extraction response", err)
	}

	return &qr.Data, nil
}

// classifyStatus maps non-2xx responses to tagged error codes so operators
// can tell auth problems from everything else.
func classifyStatus(statusCode int, body []byte) *models.TaggedError {
	msg := fmt.Sprintf("extraction API returned %d", statusCode)
	if len(body) > 0 {
		var detail struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &detail); err == nil {
			switch {
			case detail.Message != "":
				msg = fmt.Sprintf("%s: %s", msg, detail.Message)
			case detail.Error != "":
				msg = fmt.Sprintf("%s: %s", msg, detail.Error)
			}
		}
	}

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return models.NewTaggedError(models.ErrCodeExtractionAuth, msg, nil)
	}
	return models.NewTaggedError(models.ErrCodeExtraction, msg, nil)
}
