package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	// tolerance is the distance from zero under which an amount counts as
	// settled. Matches rounding to cents.
	tolerance = decimal.New(1, -2)
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// MemberBalance represents the balance of one participant.
type MemberBalance struct {
	MemberName string
	NetBalance decimal.Decimal // Positive = is owed, Negative = owes
}

// Balances is a balance vector keyed by the full roster. Iteration follows
// roster order; participants without activity hold zero.
type Balances struct {
	participants []string
	values       map[string]decimal.Decimal
}

func newBalances(participants []string) *Balances {
	values := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		values[p] = decimal.Zero
	}
	return &Balances{participants: participants, values: values}
}

func (b *Balances) add(participant string, amount decimal.Decimal) {
	b.values[participant] = b.values[participant].Add(amount)
}

// Get returns the balance of a participant, zero if unknown.
func (b *Balances) Get(participant string) decimal.Decimal {
	return b.values[participant]
}

// Participants returns the roster in iteration order.
func (b *Balances) Participants() []string {
	out := make([]string, len(b.participants))
	copy(out, b.participants)
	return out
}

// Ordered returns the balances in roster order.
func (b *Balances) Ordered() []MemberBalance {
	out := make([]MemberBalance, 0, len(b.participants))
	for _, p := range b.participants {
		out = append(out, MemberBalance{MemberName: p, NetBalance: b.values[p]})
	}
	return out
}

// SortedAscending returns the balances from most negative to most positive.
// Ties keep roster order.
func (b *Balances) SortedAscending() []MemberBalance {
	out := b.Ordered()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetBalance.LessThan(out[j].NetBalance)
	})
	return out
}

// Sum adds up every balance. Zero for vectors produced by the engine, up to
// the division precision of the decimal package.
func (b *Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range b.participants {
		sum = sum.Add(b.values[p])
	}
	return sum
}

// Rounded returns the balances rounded to cents keyed by participant.
func (b *Balances) Rounded() map[string]float64 {
	out := make(map[string]float64, len(b.participants))
	for _, p := range b.participants {
		out[p] = b.values[p].Round(2).InexactFloat64()
	}
	return out
}

// Transfer represents a payment from one person to another.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// pending tracks what is left to pay or collect for one participant.
type pending struct {
	name   string
	amount decimal.Decimal
}

// SettleMinimalTransfers reduces a balance vector to a list of transfers that
// brings every balance to zero.
//
// Algorithm:
// - Round balances to cents; negatives are debtors, positives creditors
// - Both queues keep roster order (no sorting by amount)
// - Pay min(debt, credit) between the debtor and creditor at each cursor
// - Advance every cursor whose remainder is within 0.01 of zero
// - Stop when either queue runs out
//
// The vector must sum to zero for every debt to be covered. Otherwise the loop
// still terminates and the residue stays unsettled.
func SettleMinimalTransfers(b *Balances) []Transfer {
	var debtors, creditors []pending
	for _, p := range b.participants {
		amount := b.values[p].Round(2)
		switch amount.Sign() {
		case -1:
			debtors = append(debtors, pending{name: p, amount: amount.Neg()})
		case 1:
			creditors = append(creditors, pending{name: p, amount: amount})
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		payment := decimal.Min(debtor.amount, creditor.amount)
		transfers = append(transfers, Transfer{
			From:   debtor.name,
			To:     creditor.name,
			Amount: payment.Round(2),
		})

		debtor.amount = debtor.amount.Sub(payment)
		creditor.amount = creditor.amount.Sub(payment)

		if debtor.amount.Abs().LessThan(tolerance) {
			i++
		}
		if creditor.amount.Abs().LessThan(tolerance) {
			j++
		}
	}

	return transfers
}
