package agentql

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/shopsight/config"
	"github.com/use-agent/shopsight/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.Client(), config.AgentQLConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
	return client, srv
}

func TestAnalyzeProduct_MapsCombinedResponse(t *testing.T) {
	var captured struct {
		Query  string `json:"query"`
		HTML   string `json:"html"`
		Params struct {
			Mode string `json:"mode"`
		} `json:"params"`
	}
	var apiKey string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/query-data", r.URL.Path)
		apiKey = r.Header.Get("x-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"page_validation":{"is_detail_page":true,"reason":"One focused product layout."},
			"product":{"title":"Widget","price":"19.99","currency":"USD","image_url":"https://shop.example/w.jpg"}
		}}`))
	})

	result := client.AnalyzeProduct(context.Background(), "<html>widget page</html>")

	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "fast", captured.Params.Mode)
	assert.Equal(t, "<html>widget page</html>", captured.HTML)
	assert.Contains(t, captured.Query, "is_detail_page")
	assert.Contains(t, captured.Query, "image_url")

	assert.True(t, result.Validation.IsDetailPage)
	assert.Equal(t, "One focused product layout.", result.Validation.Reason)
	require.NotNil(t, result.ProductData)
	assert.Equal(t, "Widget", result.ProductData.Title)
	assert.Equal(t, "19.99", result.ProductData.PriceValue)
	assert.Equal(t, "USD", result.ProductData.Currency)
	assert.Equal(t, "https://shop.example/w.jpg", result.ProductData.ImageURL)
}

func TestAnalyzeProduct_NonDetailPageKeepsRemoteVerdict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{
			"page_validation":{"is_detail_page":false,"reason":"Multiple product tiles and prices."}
		}}`))
	})

	result := client.AnalyzeProduct(context.Background(), "<html></html>")

	assert.False(t, result.Validation.IsDetailPage)
	assert.Equal(t, "Multiple product tiles and prices.", result.Validation.Reason)
	assert.Nil(t, result.ProductData)
}

func TestAnalyzeProduct_RemoteErrorDegradesToNegative(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"internal"}`, http.StatusInternalServerError)
	})

	result := client.AnalyzeProduct(context.Background(), "<html></html>")

	assert.False(t, result.Validation.IsDetailPage)
	assert.Equal(t, NegativeReason, result.Validation.Reason)
	assert.Nil(t, result.ProductData)
}

func TestAnalyzeProduct_MalformedBodyDegradesToNegative(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": not-json`))
	})

	result := client.AnalyzeProduct(context.Background(), "<html></html>")
	assert.Equal(t, NegativeResult(), result)
}

func TestAnalyzeProduct_UnreachableServiceDegradesToNegative(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.Client(), config.AgentQLConfig{BaseURL: srv.URL})
	srv.Close()

	result := client.AnalyzeProduct(context.Background(), "<html></html>")
	assert.Equal(t, NegativeResult(), result)
}

func TestValidatePage_SurfacesClassifiedAuthError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	})

	_, err := client.ValidatePage(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeExtractionAuth, models.ErrorCode(err))
}

func TestValidatePage_MapsFlatResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"is_detail_page":true,"reason":"Single product."}}`))
	})

	verdict, err := client.ValidatePage(context.Background(), "<html></html>")
	require.NoError(t, err)
	assert.True(t, verdict.IsDetailPage)
	assert.Equal(t, "Single product.", verdict.Reason)
}

func TestScrapeProduct_MapsFlatResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"title":"Widget","price":"19.99","currency":"USD","image_url":"https://shop.example/w.jpg"}}`))
	})

	product, err := client.ScrapeProduct(context.Background(), "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Title)
	assert.Equal(t, "19.99", product.PriceValue)
}

func TestScrapeProduct_SurfacesRemoteError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.ScrapeProduct(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeExtraction, models.ErrorCode(err))
}
