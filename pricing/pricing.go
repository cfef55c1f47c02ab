// pricing/pricing.go
package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Extractor pulls unit prices out of human-readable price labels such as
// "₱90/pc · ₱275 (3) · ₱550 (6)". Only the first price after the
// currency marker counts; a label with no marker yields 0, which the rest
// of the system treats as "price unknown" rather than an error.
type Extractor struct {
	marker string
	re     *regexp.Regexp
}

// NewExtractor builds an extractor for the given currency marker.
func NewExtractor(marker string) *Extractor {
	return &Extractor{
		marker: marker,
		re:     regexp.MustCompile(regexp.QuoteMeta(marker) + `(\d+)`),
	}
}

// Extract returns the first integer immediately following the currency
// marker, or 0 when the text carries no such price.
func (e *Extractor) Extract(text string) int {
	m := e.re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	price, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return price
}

// PriceOption is a structured priced choice (e.g. a size tier). Its Value
// is authoritative; Text may carry a style fragment after a hyphen that
// qualifies the label, e.g. "₱150 - with toppings".
type PriceOption struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// ItemRequest is the raw product selection coming off a product card:
// the product name, its free-text price label, and the optional flavor
// and price selectors.
type ItemRequest struct {
	Product      string       `json:"product"`
	PriceText    string       `json:"price_text"`
	FlavorOption string       `json:"flavor_option"`
	PriceOption  *PriceOption `json:"price_option"`
}

// Resolve turns an ItemRequest into the final cart label and unit price.
// When a price option is present its value wins and the free-text label
// is never parsed. The flavor option contributes the fragment before its
// hyphen, the price option the fragment after its own.
func (e *Extractor) Resolve(req ItemRequest) (string, int) {
	label := strings.TrimSpace(req.Product)
	price := 0

	if flavor := fragmentBefore(req.FlavorOption); flavor != "" {
		label = fmt.Sprintf("%s - %s", label, flavor)
	}

	if req.PriceOption != nil {
		price = req.PriceOption.Value
		if style := fragmentAfter(req.PriceOption.Text); style != "" {
			label = fmt.Sprintf("%s (%s)", label, style)
		}
	} else {
		price = e.Extract(req.PriceText)
	}

	return label, price
}

func fragmentBefore(text string) string {
	before, _, _ := strings.Cut(text, "-")
	return strings.TrimSpace(before)
}

func fragmentAfter(text string) string {
	_, after, found := strings.Cut(text, "-")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}
