package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/comparely/backend/internal/domain"
)

// Sentinels used when the source record carries nothing usable.
const (
	fallbackName     = "Imported Product"
	fallbackCategory = "General"
	fallbackBrand    = "Unknown"

	// PlaceholderImage backs the guarantee that a canonical product never
	// has an empty image field.
	PlaceholderImage = "https://via.placeholder.com/400?text=No+Image"
)

// priceCharsRegex strips currency symbols, thousands separators and other
// noise from string prices; digits, dot and minus are the only survivors.
var priceCharsRegex = regexp.MustCompile(`[^0-9.\-]`)

// zeroWidthReplacer removes the invisible characters Amazon specification
// tables are littered with (zero-width space/joiners and the BOM).
var zeroWidthReplacer = strings.NewReplacer(
	"\u200B", "",
	"\u200C", "",
	"\u200D", "",
	"\uFEFF", "",
)

// stringExtractor produces one candidate value for a field, or ok=false so
// the chain moves on to the next candidate.
type stringExtractor func(domain.RawRecord) (string, bool)

// NormalizeRecord converts a raw catalog record into a canonical product
// payload, owner unset. It is pure and never fails: every field degrades
// through its precedence chain to a sentinel or zero value. The record may
// arrive wrapped one level under a "product" key (the Rainforest response
// shape) or already flat.
func NormalizeRecord(raw domain.RawRecord) *domain.Product {
	src := unwrap(raw)

	features := extractFeatures(src)

	price := extractPrice(src)
	if price < 0 {
		price = 0
	}

	return &domain.Product{
		Name:           firstString(src, nameChain, fallbackName),
		Description:    firstString(src, descriptionChain, ""),
		Price:          price,
		Category:       firstString(src, categoryChain, fallbackCategory),
		Brand:          firstString(src, brandChain, fallbackBrand),
		Image:          firstString(src, imageChain, PlaceholderImage),
		InStock:        extractInStock(src),
		StockQuantity:  0,
		Features:       features,
		Specifications: extractSpecifications(src),
	}
}

// unwrap peels the Rainforest "product" wrapper once if present.
func unwrap(raw domain.RawRecord) domain.RawRecord {
	if inner, ok := raw.Record("product"); ok {
		return inner
	}
	return raw
}

// firstString walks an extractor chain and returns the first hit.
func firstString(src domain.RawRecord, chain []stringExtractor, fallback string) string {
	for _, extract := range chain {
		if v, ok := extract(src); ok {
			return v
		}
	}
	return fallback
}

// stringAt extracts a trimmed, non-empty string at the given path.
func stringAt(path ...string) stringExtractor {
	return func(src domain.RawRecord) (string, bool) {
		s, ok := src.String(path...)
		if !ok {
			return "", false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", false
		}
		return s, true
	}
}

var nameChain = []stringExtractor{
	stringAt("title"),
}

var imageChain = []stringExtractor{
	stringAt("main_image", "link"),
	firstImageLink,
	stringAt("image", "link"),
	stringAt("image"),
}

var categoryChain = []stringExtractor{
	firstCategoryName,
	stringAt("categories_flat"),
	stringAt("search_alias", "title"),
}

var brandChain = []stringExtractor{
	stringAt("brand"),
}

// descriptionChain deliberately never touches feature bullets: a bullet list
// is not a description. The import flow synthesizes a fallback separately.
var descriptionChain = []stringExtractor{
	stringAt("description"),
	firstEditorialBody,
}

// firstImageLink returns the link of the first entry in an images list.
func firstImageLink(src domain.RawRecord) (string, bool) {
	images, ok := src.List("images")
	if !ok || len(images) == 0 {
		return "", false
	}
	entry, ok := images[0].(map[string]any)
	if !ok {
		return "", false
	}
	return stringAt("link")(domain.RawRecord(entry))
}

// firstCategoryName returns the name of the first category entry.
func firstCategoryName(src domain.RawRecord) (string, bool) {
	categories, ok := src.List("categories")
	if !ok || len(categories) == 0 {
		return "", false
	}
	entry, ok := categories[0].(map[string]any)
	if !ok {
		return "", false
	}
	return stringAt("name")(domain.RawRecord(entry))
}

// firstEditorialBody returns the body text of the first editorial
// recommendation.
func firstEditorialBody(src domain.RawRecord) (string, bool) {
	recs, ok := src.List("editorial_recommendations")
	if !ok || len(recs) == 0 {
		return "", false
	}
	entry, ok := recs[0].(map[string]any)
	if !ok {
		return "", false
	}
	return stringAt("body")(domain.RawRecord(entry))
}

// extractFeatures takes the first non-empty bullet list, keeping only
// non-blank strings in source order. Duplicates are permitted.
func extractFeatures(src domain.RawRecord) []string {
	for _, key := range []string{"feature_bullets", "features"} {
		list, ok := src.List(key)
		if !ok || len(list) == 0 {
			continue
		}
		features := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			features = append(features, s)
		}
		return features
	}
	return []string{}
}

// extractSpecifications converts a list of {name, value} records into a map.
// Keys and values are cleaned of zero-width characters and trimmed; empty
// keys are dropped and later duplicates overwrite earlier ones.
func extractSpecifications(src domain.RawRecord) map[string]string {
	specs := map[string]string{}
	list, ok := src.List("specifications")
	if !ok {
		return specs
	}
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := cleanSpecText(entry["name"])
		if key == "" {
			continue
		}
		specs[key] = cleanSpecText(entry["value"])
	}
	return specs
}

func cleanSpecText(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return ""
	}
	return strings.TrimSpace(zeroWidthReplacer.Replace(s))
}

// extractInStock derives availability from the first representation present:
// a flat availability_status string, the buybox winner's availability type,
// then a generic availability type. Whichever is found first decides.
func extractInStock(src domain.RawRecord) bool {
	paths := [][]string{
		{"availability_status"},
		{"buybox_winner", "availability", "type"},
		{"availability", "type"},
	}
	for _, path := range paths {
		if s, ok := src.String(path...); ok {
			return strings.EqualFold(strings.TrimSpace(s), "in_stock")
		}
	}
	return false
}

// extractPrice takes the first price candidate present and parses it.
// Precedence: buybox winner price, flat price, buybox winner RRP.
func extractPrice(src domain.RawRecord) float64 {
	paths := [][]string{
		{"buybox_winner", "price", "value"},
		{"price", "value"},
		{"buybox_winner", "rrp", "value"},
	}
	for _, path := range paths {
		// An explicit null does not count as present; the chain moves on.
		if v, ok := src.Value(path...); ok && v != nil {
			return parsePrice(v)
		}
	}
	return 0
}

// parsePrice tolerates numeric and string prices. Strings are stripped down
// to digits, dot and minus before parsing; anything unparseable yields 0.
func parsePrice(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case string:
		cleaned := priceCharsRegex.ReplaceAllString(t, "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// FallbackDescription builds the placeholder description used when an
// imported record has no usable description text: a sentence listing up to
// ten features, or a generic line naming the product.
func FallbackDescription(name string, features []string) string {
	if len(features) > 0 {
		if len(features) > 10 {
			features = features[:10]
		}
		return "Features: " + strings.Join(features, ", ")
	}
	return "Imported product: " + name
}
