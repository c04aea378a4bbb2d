package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// Key joins a namespace and stringified parts with the fixed ':' delimiter.
func Key(namespace string, parts ...string) string {
	if len(parts) == 0 {
		return namespace
	}
	return namespace + ":" + strings.Join(parts, ":")
}

// FilterHash derives a short, stable hash from a structured filter. The
// value is round-tripped through JSON maps so that key order never leaks
// into the hash: encoding/json serializes map keys sorted, at every nesting
// level. Two logically-equivalent filters therefore hash identically.
func FilterHash(filter any) string {
	raw, err := json.Marshal(filter)
	if err != nil {
		return "default"
	}
	var canonical any
	if err := json.Unmarshal(raw, &canonical); err != nil {
		return "default"
	}
	normalized, err := json.Marshal(canonical)
	if err != nil {
		return "default"
	}
	sum := sha256.Sum256(normalized)
	return hex.EncodeToString(sum[:])[:16]
}

// Product key family.

func ProductByID(id string) string {
	return Key("product", "id", id)
}

func ProductByCategory(categoryID string, page, limit int) string {
	return Key("product", "category", categoryID, strconv.Itoa(page), strconv.Itoa(limit))
}

func ProductByUser(userID string, page, limit int) string {
	return Key("product", "user", userID, strconv.Itoa(page), strconv.Itoa(limit))
}

func ProductAll(page, limit int, filterHash string) string {
	return Key("product", "all", strconv.Itoa(page), strconv.Itoa(limit), filterHash)
}

func ProductSearch(queryHash string, page, limit int) string {
	return Key("product", "search", queryHash, strconv.Itoa(page), strconv.Itoa(limit))
}

func ProductFilter(paramsHash string) string {
	return Key("product", "filter", paramsHash)
}

const (
	ProductPattern       = "product:*"
	ProductAllPattern    = "product:all:*"
	ProductSearchPattern = "product:search:*"
	ProductFilterPattern = "product:filter:*"
)

func ProductCategoryPattern(categoryID string) string {
	return Key("product", "category", categoryID) + ":*"
}

func ProductUserPattern(userID string) string {
	return Key("product", "user", userID) + ":*"
}

// Category key family.

func CategoryByID(id string) string { return Key("category", "id", id) }

func CategoryAll() string { return Key("category", "all") }

const CategoryPattern = "category:*"

// User key family.

func UserByID(id string) string { return Key("user", "id", id) }

const UserPattern = "user:*"

// Search service key family.

func SearchResult(queryHash string, page, limit int) string {
	return Key("search", "result", queryHash, strconv.Itoa(page), strconv.Itoa(limit))
}

func SearchFrequency(query string) string { return Key("search", "frequency", query) }

// SearchAnalyticsKey holds the rolling log of recent search records. The
// store has no key enumeration, so the log is a single bounded slice.
const SearchAnalyticsKey = "search:analytics"

func Autocomplete(query string) string { return Key("autocomplete", query) }

const (
	SearchPattern      = "search:*"
	PopularTermsKey    = "search:popular_terms"
	AutocompletePrefix = "autocomplete:*"
)
