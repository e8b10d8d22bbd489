// Package report renders the CSV exports stored next to the trip list.
//
// The layout (headers, blank separator lines, always-quoted passenger column)
// is fixed: spreadsheets built on top of viajes.csv and dinero.csv read it by
// position.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iosugomez/kotxea/internal/calculator"
	"github.com/iosugomez/kotxea/internal/models"
)

const (
	ridesBalanceHeader = "Persona,Balance"
	ridesLogHeader     = "Fecha,Conductor,Pasajeros,Número de Pasajeros"

	moneyBalanceHeader  = "Persona,Saldo (€)"
	moneyTransfersTitle = "Pagos mínimos para saldar deudas:"
	moneyTransfersHead  = "Deudor,Acreedor,Cantidad (€)"
	moneyLogHeader      = "Fecha,Conductor,Pasajeros,Dinero Total,Dinero por Persona"
)

// RidesCSV renders viajes.csv: seat balances from lowest to highest with three
// decimals, then the ride log.
func RidesCSV(trips []models.Trip, seat *calculator.Balances) string {
	var b strings.Builder

	line(&b, ridesBalanceHeader)
	for _, m := range seat.SortedAscending() {
		line(&b, "%s,%s", m.MemberName, m.NetBalance.StringFixed(3))
	}

	b.WriteString("\n")
	line(&b, ridesLogHeader)
	for _, t := range trips {
		line(&b, "%s,%s,%s,%d", t.Date, t.Driver, passengers(t), len(t.Passengers))
	}

	return b.String()
}

// MoneyCSV renders dinero.csv: money balances in roster order, the settlement
// when there is anything to settle, then the cost-bearing trips.
func MoneyCSV(trips []models.Trip, money *calculator.Balances, transfers []calculator.Transfer) string {
	var b strings.Builder

	line(&b, moneyBalanceHeader)
	for _, m := range money.Ordered() {
		line(&b, "%s,%s", m.MemberName, m.NetBalance.StringFixed(2))
	}

	if len(transfers) > 0 {
		b.WriteString("\n")
		line(&b, moneyTransfersTitle)
		line(&b, moneyTransfersHead)
		for _, tr := range transfers {
			line(&b, "%s,%s,%s", tr.From, tr.To, tr.Amount.StringFixed(2))
		}
	}

	b.WriteString("\n")
	line(&b, moneyLogHeader)
	for _, t := range trips {
		cost := decimal.NewFromFloat(t.Cost)
		share, ok := calculator.TripShare(calculator.TripForBalance{
			Driver:     t.Driver,
			Passengers: t.Passengers,
			Cost:       cost,
		})
		if !ok {
			continue
		}
		line(&b, "%s,%s,%s,%s,%s", t.Date, t.Driver, passengers(t), cost.StringFixed(2), share.StringFixed(2))
	}

	return b.String()
}

// passengers joins the passenger list with pipes and always quotes it.
func passengers(t models.Trip) string {
	return `"` + strings.Join(t.Passengers, "|") + `"`
}

func line(b *strings.Builder, format string, args ...any) {
	fmt.Fprintf(b, format, args...)
	b.WriteString("\n")
}
