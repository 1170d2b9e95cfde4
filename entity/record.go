package entity

import "time"

// TransactionRecord is one append-only ledger row, written exactly once per
// payment run that reaches a terminal outcome. Fast-fail validation
// rejections never produce a record.
type TransactionRecord struct {
	OrderId       string    `json:"order_id" bson:"order_id"`
	Machine       string    `json:"machine" bson:"machine"`
	Barcode       string    `json:"barcode" bson:"barcode"`
	Amount        int       `json:"amount" bson:"amount"`
	PayWay        string    `json:"payway" bson:"payway"`
	Status        string    `json:"status" bson:"status"`
	ReturnCode    string    `json:"return_code" bson:"return_code"`
	ReturnMessage string    `json:"return_message" bson:"return_message"`
	TimeCreated   time.Time `json:"time_created" bson:"time_created"`
}
