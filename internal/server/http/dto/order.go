package dto

// UpdateStatusRequest drives a lifecycle transition; Override engages the
// administrative correction path.
type UpdateStatusRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Override bool   `json:"override"`
}

// PayRequest charges the outstanding remainder of an order.
type PayRequest struct {
	Method         string `json:"method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
}

// UpdatePaymentRequest corrects a payment attempt out-of-band.
type UpdatePaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Result    string `json:"result" binding:"required"`
	Reference string `json:"reference"`
}

// PaymentInfoRequest reads the payment snapshot of an order.
type PaymentInfoRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Notify  bool   `json:"notify"`
}

// ArbitrateRequest resolves a pending cancellation request.
type ArbitrateRequest struct {
	Approve bool `json:"approve"`
}

// CancelRefusalResponse reports a policy-refused cancellation.
type CancelRefusalResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

// CancelRequestResponse reports whether a cancellation request is pending.
type CancelRequestResponse struct {
	Requested bool `json:"requested"`
}
