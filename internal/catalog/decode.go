package catalog

import (
	"bytes"
	"encoding/json"

	"chocostore/internal/domain"
)

// DecodeProducts parses a product list payload. Anything that is not a JSON
// array of products yields an empty catalog rather than an error.
func DecodeProducts(data []byte) []domain.Product {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []domain.Product{}
	}
	var products []domain.Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return []domain.Product{}
	}
	out := products[:0]
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		out = append(out, p)
	}
	return out
}
