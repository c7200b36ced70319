package domain

// CartItem is the persisted form of a cart line. Product details are not
// duplicated into storage and are re-resolved from the catalog on load.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartSnapshot is a read-only copy of a cart with resolved product details,
// handed to checkout and to API consumers.
type CartSnapshot struct {
	Lines      []CartSnapshotLine `json:"lines"`
	TotalItems int                `json:"totalItems"`
	TotalPrice int64              `json:"totalPrice"`
}

type CartSnapshotLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
	InStock   bool   `json:"inStock"`
}

// Empty reports whether the snapshot has no lines.
func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}
