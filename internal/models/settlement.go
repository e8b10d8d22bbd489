package models

// Transfer represents a payment from a debtor to a creditor that reduces
// outstanding money balances.
type Transfer struct {
	// From is the participant who pays (debtor).
	From string

	// To is the participant who receives the payment (creditor).
	To string

	// Amount is the payment amount, rounded to cents.
	Amount float64
}

// Settlement is the result of settling a set of trips without persisting them.
type Settlement struct {
	// Transfers are the payments in the order the settlement produced them.
	Transfers []Transfer

	// Balances are the money balances per participant, rounded to cents.
	// Positive = is owed money, negative = owes money.
	Balances map[string]float64
}
