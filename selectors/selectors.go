// Package selectors discovers stable CSS selectors for product fields in
// rendered HTML and re-extracts values through them. The selectors can be
// stored and replayed for scheduled price checks without another call to the
// extraction API.
package selectors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selectors holds one CSS path per product field. Empty means the field's
// element could not be located.
type Selectors struct {
	Title    string
	Price    string
	Currency string
}

// Values holds field values re-extracted via Selectors.
type Values struct {
	Title    string
	Price    string
	Currency string
}

// Comparison reports whether selector-extracted values agree with the
// extraction API's values.
type Comparison struct {
	Title    bool
	Price    bool
	Currency bool
	AllMatch bool
}

var (
	priceRe    = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?`)
	currencyRe = regexp.MustCompile(`(?i)[$€£¥₹]|USD|EUR|GBP|JPY|INR`)
)

// currencySymbols expands a currency code into the spellings it may appear as.
var currencySymbols = map[string][]string{
	"USD": {"$", "usd", "dollar"},
	"EUR": {"€", "eur", "euro"},
	"GBP": {"£", "gbp", "pound"},
	"JPY": {"¥", "jpy", "yen"},
	"INR": {"₹", "inr", "rupee"},
}

// Find locates CSS selectors for the elements holding the given title, price
// and currency values.
func Find(rawHTML, title, price, currency string) (Selectors, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Selectors{}, err
	}

	sel := Selectors{
		Title: findTitle(doc, title),
		Price: findPrice(doc, price),
	}
	sel.Currency = findCurrency(doc, currency, sel.Price)
	return sel, nil
}

// findTitle tries heading elements first, then elements whose class or id
// hints at a product name.
func findTitle(doc *goquery.Document, title string) string {
	want := strings.ToLower(normalize(title))
	if want == "" {
		return ""
	}

	match := func(s *goquery.Selection) bool {
		text := strings.ToLower(normalize(s.Text()))
		return text != "" && (strings.Contains(text, want) || strings.Contains(want, text))
	}

	for _, tag := range []string{"h1", "h2", "h3", "h4"} {
		if path := firstMatch(doc.Find(tag), match); path != "" {
			return path
		}
	}

	hinted := doc.Find("[class*=product],[class*=title],[class*=name],[id*=product],[id*=title],[id*=name]")
	return firstMatch(hinted, match)
}

// findPrice searches price-hinted elements for a rendering of the numeric
// price, falling back to a whole-document scan preferring elements that also
// carry a currency marker.
func findPrice(doc *goquery.Document, price string) string {
	value := NumericPrice(price)
	if value == 0 {
		return ""
	}

	renderings := []string{
		strconv.FormatFloat(value, 'f', -1, 64),
		strconv.FormatFloat(value, 'f', 2, 64),
		strconv.Itoa(int(value)),
	}
	containsPrice := func(text string) bool {
		for _, r := range renderings {
			if strings.Contains(text, r) {
				return true
			}
		}
		return false
	}

	hinted := doc.Find("[class*=price],[class*=cost],[class*=amount],[id*=price],[id*=cost],[id*=amount]")
	if path := firstMatch(hinted, func(s *goquery.Selection) bool {
		return containsPrice(normalize(s.Text()))
	}); path != "" {
		return path
	}

	// Whole-document fallback: prefer an element that also shows a currency
	// marker next to the number.
	var first, withCurrency string
	doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := normalize(s.Text())
		if !containsPrice(text) {
			return true
		}
		path := cssPath(s.Nodes[0])
		if first == "" {
			first = path
		}
		if currencyRe.MatchString(text) {
			withCurrency = path
			return false
		}
		return true
	})
	if withCurrency != "" {
		return withCurrency
	}
	return first
}

// findCurrency checks the price element and its parent before falling back
// to class-hinted and whole-document scans.
func findCurrency(doc *goquery.Document, currency, pricePath string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		return ""
	}

	terms := []string{cur}
	for code, spellings := range currencySymbols {
		if cur == code {
			terms = append(terms, spellings...)
			break
		}
	}
	containsTerm := func(text string) bool {
		up := strings.ToUpper(text)
		for _, term := range terms {
			if strings.Contains(up, strings.ToUpper(term)) {
				return true
			}
		}
		return false
	}

	if pricePath != "" {
		priceElem := doc.Find(pricePath)
		if priceElem.Length() > 0 {
			if containsTerm(normalize(priceElem.Text())) {
				return pricePath
			}
			parent := priceElem.Parent()
			if parent.Length() > 0 && containsTerm(normalize(parent.Text())) {
				return cssPath(parent.Nodes[0])
			}
		}
	}

	hinted := doc.Find("[class*=price],[class*=currency],[id*=price],[id*=currency]")
	if path := firstMatch(hinted, func(s *goquery.Selection) bool {
		return containsTerm(normalize(s.Text()))
	}); path != "" {
		return path
	}

	return firstMatch(doc.Find("body *"), func(s *goquery.Selection) bool {
		return containsTerm(normalize(s.OwnText()))
	})
}

// Extract re-reads field values out of the HTML using the given selectors.
// Missing or non-matching selectors yield empty values, never errors.
func Extract(rawHTML string, sel Selectors) (Values, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return Values{}, err
	}

	var v Values
	if text := queryText(doc, sel.Title); text != "" {
		v.Title = text
	}
	if text := queryText(doc, sel.Price); text != "" {
		if m := priceRe.FindString(text); m != "" {
			v.Price = strings.ReplaceAll(m, ",", ".")
		}
	}
	if text := queryText(doc, sel.Currency); text != "" {
		if m := currencyRe.FindString(text); m != "" {
			v.Currency = m
		} else {
			v.Currency = text
		}
	}
	return v, nil
}

// Compare checks selector-extracted values against the extraction API's
// values. Title comparison allows containment either way (a CSS path often
// grabs slightly more or less text); prices tolerate sub-cent drift.
func Compare(extracted Values, title, price, currency string) Comparison {
	var c Comparison

	wantTitle := strings.ToLower(normalize(title))
	gotTitle := strings.ToLower(normalize(extracted.Title))
	if wantTitle != "" && gotTitle != "" {
		c.Title = gotTitle == wantTitle ||
			strings.Contains(gotTitle, wantTitle) ||
			strings.Contains(wantTitle, gotTitle)
	}

	wantPrice := NumericPrice(price)
	gotPrice := NumericPrice(extracted.Price)
	if wantPrice != 0 && gotPrice != 0 {
		diff := wantPrice - gotPrice
		if diff < 0 {
			diff = -diff
		}
		c.Price = diff < 0.01
	}

	if currency != "" && extracted.Currency != "" {
		c.Currency = strings.EqualFold(strings.TrimSpace(currency), strings.TrimSpace(extracted.Currency))
	}

	c.AllMatch = c.Title && c.Price && c.Currency
	return c
}

// NumericPrice strips currency decoration from a displayed price and parses
// it as a float. Comma decimal separators are accepted; thousands separators
// collapse into the integer part. Returns 0 when no number survives.
func NumericPrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := strings.ReplaceAll(b.String(), ",", ".")

	// Keep only the last dot as the decimal separator.
	if parts := strings.Split(clean, "."); len(parts) > 2 {
		clean = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return value
}

// firstMatch returns the CSS path of the first selection element accepted by
// match, or "".
func firstMatch(selection *goquery.Selection, match func(*goquery.Selection) bool) string {
	var path string
	selection.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if match(s) {
			path = cssPath(s.Nodes[0])
			return false
		}
		return true
	})
	return path
}

// queryText resolves a CSS selector against a parsed document and returns
// the normalized text content of the first match.
func queryText(doc *html.Node, selector string) string {
	if selector == "" {
		return ""
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return ""
	}
	node := cascadia.Query(doc, sel)
	if node == nil {
		return ""
	}
	return normalize(textContent(node))
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
			b.WriteString(" ")
		}
		for child := cur.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// cssPath builds a child-indexed CSS path for a node, rooted at <html>.
func cssPath(n *html.Node) string {
	var segments []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		segment := cur.Data
		if cur.Data != "html" && cur.Data != "body" {
			index := 1
			for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
				if sib.Type == html.ElementNode {
					index++
				}
			}
			segment = fmt.Sprintf("%s:nth-child(%d)", cur.Data, index)
		}
		segments = append([]string{segment}, segments...)
	}
	return strings.Join(segments, " > ")
}

// normalize collapses runs of whitespace into single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
