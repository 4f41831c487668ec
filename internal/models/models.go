package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&CustomerProductPrice{},
		&Order{},
		&OrderProduct{},
		&SalesmanRoute{},
		&AdminAssign{},
		&CreditLimit{},
		&PaymentTransaction{},
		&Invoice{},
		&Remark{},
	}
}
