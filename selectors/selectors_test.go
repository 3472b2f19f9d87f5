package selectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html>
<head><title>Widget — Example Shop</title></head>
<body>
  <header><nav>Example Shop</nav></header>
  <main>
    <div class="product-detail">
      <h1 class="product-title">Acme Widget Deluxe</h1>
      <div class="price-box">
        <span class="price">$ 19.99</span>
        <span class="old-price">$ 24.99</span>
      </div>
      <img src="https://shop.example/w.jpg" alt="widget"/>
    </div>
  </main>
</body>
</html>`

func TestFind_LocatesAllFields(t *testing.T) {
	sel, err := Find(productPage, "Acme Widget Deluxe", "19.99", "USD")
	require.NoError(t, err)

	assert.NotEmpty(t, sel.Title)
	assert.NotEmpty(t, sel.Price)
	assert.NotEmpty(t, sel.Currency)
	assert.Contains(t, sel.Title, "h1")
}

func TestFind_RoundTripsThroughExtract(t *testing.T) {
	sel, err := Find(productPage, "Acme Widget Deluxe", "19.99", "USD")
	require.NoError(t, err)

	values, err := Extract(productPage, sel)
	require.NoError(t, err)

	assert.Equal(t, "Acme Widget Deluxe", values.Title)
	assert.Equal(t, "19.99", values.Price)
	assert.Equal(t, "$", values.Currency)
}

func TestFind_MissingFieldsYieldEmptySelectors(t *testing.T) {
	sel, err := Find(productPage, "", "", "")
	require.NoError(t, err)

	assert.Empty(t, sel.Title)
	assert.Empty(t, sel.Price)
	assert.Empty(t, sel.Currency)
}

func TestExtract_EmptySelectorsYieldEmptyValues(t *testing.T) {
	values, err := Extract(productPage, Selectors{})
	require.NoError(t, err)
	assert.Equal(t, Values{}, values)
}

func TestCompare_MatchingValues(t *testing.T) {
	c := Compare(Values{Title: "Acme Widget Deluxe", Price: "19.99", Currency: "usd"},
		"Acme Widget Deluxe", "19.99", "USD")

	assert.True(t, c.Title)
	assert.True(t, c.Price)
	assert.True(t, c.Currency)
	assert.True(t, c.AllMatch)
}

func TestCompare_TitleAllowsContainment(t *testing.T) {
	// A CSS path often grabs slightly more text than the bare title.
	c := Compare(Values{Title: "Acme Widget Deluxe — Blue", Price: "19.99", Currency: "USD"},
		"Acme Widget Deluxe", "19.99", "USD")
	assert.True(t, c.Title)
}

func TestCompare_PriceMismatch(t *testing.T) {
	c := Compare(Values{Title: "Acme Widget Deluxe", Price: "24.99", Currency: "USD"},
		"Acme Widget Deluxe", "19.99", "USD")

	assert.False(t, c.Price)
	assert.False(t, c.AllMatch)
}

func TestNumericPrice(t *testing.T) {
	cases := map[string]float64{
		"19.99":     19.99,
		"$ 19.99":   19.99,
		"19,99":     19.99,
		"1,299.00":  1299.00,
		"EUR 42":    42,
		"":          0,
		"free":      0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, NumericPrice(in), 0.001, "input %q", in)
	}
}
