// Package catalog exposes read models over the product and user tables.
// Both tables are owned by the checkout side of the system; everything in
// here is read-only.
package catalog

// Product is a sellable item as seen by the reporting side. Soft-deleted
// rows (deleted_at set) are never returned.
type Product struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Barcode   string  `json:"barcode"`
	CostPrice float64 `json:"cost_price"`
}

// Cashier identifies the user who processed an order.
type Cashier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
