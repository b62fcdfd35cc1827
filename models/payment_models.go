package models

type Record struct {
	Key   []byte
	Value []byte
	Topic string
}

const PaymentComplete = "COMPLETE"

// PaymentEvent is a confirmed mobile-money payment published by the
// on-ramp webhook ingester. Only COMPLETE events trigger a disbursement.
type PaymentEvent struct {
	TransactionCode  string  `json:"transaction_code"`
	RecipientAddress string  `json:"recipient_address"`
	PhoneNumber      string  `json:"phone_number"`
	AmountKES        float64 `json:"amount_kes"`
	Provider         string  `json:"provider"`
	Status           string  `json:"status"`
	Timestamp        string  `json:"timestamp"`
}

func (e *PaymentEvent) Transform() EnqueueRequest {
	return EnqueueRequest{
		RecipientAddress: e.RecipientAddress,
		AmountKES:        e.AmountKES,
		TransactionCode:  e.TransactionCode,
	}
}
