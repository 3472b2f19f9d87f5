package agentql

// AgentQL queries are schema-shaped documents whose field descriptions are
// natural language consumed by the remote service, not parsed locally.

const validationQuery = `
{
  is_detail_page(Determine if this page focuses on a single specific product or item, not a category or list of multiple items.)
  reason(Explain briefly why this page is or isn't identified as a single product detail page — mention clues like multiple prices, multiple product titles, or one clearly focused layout.)
}
`

const productQuery = `
{
  title(The main visible name or heading of the single primary product on the page.)
  price(The active numeric selling price shown for that product, excluding old or discounted prices.)
  currency(The currency symbol or code displayed with the main price, such as $, USD, €, or GBP.)
  image_url(The URL of the main image displayed for the single primary product on the page.)
}
`

const combinedQuery = `
{
  page_validation {
    is_detail_page(Determine if this page focuses on a single specific product or item, not a category or list of multiple items.)
    reason(Explain briefly why this page is or isn't identified as a single product detail page — mention clues like multiple prices, multiple product titles, or one clearly focused layout.)
  }
  product {
    title(The main visible name or heading of the single primary product on the page.)
    price(The active numeric selling price shown for that product, excluding old or discounted prices.)
    currency(The currency symbol or code displayed with the main price, such as $, USD, €, or GBP.)
    image_url(The URL of the main image displayed for the single primary product on the page.)
  }
}
`
