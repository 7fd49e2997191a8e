package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/comparely/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	dpPathRegex        = regexp.MustCompile(`(?i)/dp/([A-Z0-9]{10})`)
	gpProductPathRegex = regexp.MustCompile(`(?i)/gp/product/([A-Z0-9]{10})`)

	// Closed set of marketplace storefronts the Rainforest API accepts.
	amazonDomainRegex = regexp.MustCompile(`(?i)amazon\.(sa|com|co\.uk|de|fr|it|es|ca|in|com\.au|com\.mx|co\.jp|ae|nl)`)
)

// DefaultAmazonDomain is the storefront queried when the URL host is not a
// recognized regional marketplace.
const DefaultAmazonDomain = "amazon.com"

// ExtractASIN pulls the 10-character catalog identifier out of an Amazon
// product URL. The /dp/ path shape wins over /gp/product/ when both match.
func ExtractASIN(rawURL string) (string, error) {
	if m := dpPathRegex.FindStringSubmatch(rawURL); m != nil {
		return strings.ToUpper(m[1]), nil
	}
	if m := gpProductPathRegex.FindStringSubmatch(rawURL); m != nil {
		return strings.ToUpper(m[1]), nil
	}
	return "", domain.ErrInvalidProductURL
}

// AmazonDomain picks the regional storefront from the URL host. An
// unparseable URL or an unrecognized host falls back to DefaultAmazonDomain;
// this never fails an import, it only selects which catalog is queried.
func AmazonDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return DefaultAmazonDomain
	}
	if m := amazonDomainRegex.FindStringSubmatch(u.Host); m != nil {
		return "amazon." + strings.ToLower(m[1])
	}
	return DefaultAmazonDomain
}
