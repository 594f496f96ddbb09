package contract

type SignContractRequest struct {
	Signature string `json:"signature" binding:"required"`
}

type CancellationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ResolveCancellationRequest struct {
	Approve bool `json:"approve"`
}
