package entity

// TradeData is the signed gateway's transaction payload. Field order matters:
// the authentication digest is computed over the compact JSON encoding of this
// struct, so reordering fields breaks the signature.
type TradeData struct {
	StoreID          string `json:"StoreID"`
	TermID           string `json:"TermID"`
	Timeout          int    `json:"Timeout"`
	BuyerID          string `json:"BuyerID"`
	OrderNo          string `json:"OrderNo"`
	OrderCurrency    string `json:"OrderCurrency"`
	OrderAmount      int    `json:"OrderAmount"`
	OrderDT          string `json:"OrderDT"`
	OrderTitle       string `json:"OrderTitle"`
	BuyerPaymentType int    `json:"BuyerPaymentType"`
}

// TradeEnvelope wraps the percent-encoded trade payload with its digest.
// The envelope itself is JSON-encoded and percent-encoded again before
// transport as a single form field.
type TradeEnvelope struct {
	Type      string `json:"Type"`
	Action    string `json:"Action"`
	TradeData string `json:"TradeData"`
	Hash      string `json:"Hash"`
}
