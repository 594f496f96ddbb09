package transfer

type CreateTransferRequest struct {
	UserID              int64  `json:"-"`
	CurrentPropertyID   int64  `json:"current_property_id" binding:"required"`
	RequestedPropertyID int64  `json:"requested_property_id" binding:"required"`
	Reason              string `json:"reason" binding:"required"`
}

type DecideTransferRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}
