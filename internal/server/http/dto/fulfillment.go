package dto

// AddPackageRequest allocates item quantities into a new pending package.
type AddPackageRequest struct {
	OrderID    string         `json:"order_id" binding:"required"`
	Allocation map[string]int `json:"allocation" binding:"required"`
}

// DelPackageRequest removes a still-pending package.
type DelPackageRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PackageID string `json:"package_id" binding:"required"`
}

// PackageStatusRequest advances a package through its shipment states.
type PackageStatusRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PackageID string `json:"package_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// ReturnRequest opens an RMA for delivered items.
type ReturnRequest struct {
	OrderID string         `json:"order_id" binding:"required"`
	Items   map[string]int `json:"items" binding:"required"`
	Reason  string         `json:"reason"`
	Locale  string         `json:"locale"`
}

// ReturnStatusRequest advances an RMA record.
type ReturnStatusRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	ReturnID string `json:"return_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// DuplicateToCartRequest rebuilds a cart from a historical order.
type DuplicateToCartRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}
