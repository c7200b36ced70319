package source

import (
	"context"
	_ "embed"

	"chocostore/internal/catalog"
	"chocostore/internal/domain"
)

//go:embed data/products.json
var staticCatalog []byte

// Static serves the catalog bundled into the binary. It is the fallback
// when the database cannot be reached.
type Static struct{}

func (Static) List(context.Context) ([]domain.Product, error) {
	return catalog.DecodeProducts(staticCatalog), nil
}
