package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iosugomez/kotxea/internal/calculator"
	"github.com/iosugomez/kotxea/internal/models"
)

var roster = []string{"Iosu", "Lide", "Asier", "Itziar"}

func balancesFor(t *testing.T, trips []models.Trip) (*calculator.Balances, *calculator.Balances) {
	t.Helper()
	engine, err := calculator.NewEngine(roster)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	input := make([]calculator.TripForBalance, len(trips))
	for i, trip := range trips {
		input[i] = calculator.TripForBalance{
			Driver:     trip.Driver,
			Passengers: trip.Passengers,
			Cost:       decimal.NewFromFloat(trip.Cost),
		}
	}
	seat, err := engine.SeatBalances(input)
	if err != nil {
		t.Fatalf("SeatBalances failed: %v", err)
	}
	money, err := engine.MoneyBalances(input)
	if err != nil {
		t.Fatalf("MoneyBalances failed: %v", err)
	}
	return seat, money
}

func TestRidesCSV(t *testing.T) {
	trips := []models.Trip{
		{Date: "2024-03-01", Driver: "Iosu", Passengers: []string{"Lide"}},
		{Date: "2024-03-02", Driver: "Asier", Passengers: []string{}},
	}
	seat, _ := balancesFor(t, trips)

	want := "Persona,Balance\n" +
		"Lide,-0.500\n" +
		"Asier,0.000\n" +
		"Itziar,0.000\n" +
		"Iosu,0.500\n" +
		"\n" +
		"Fecha,Conductor,Pasajeros,Número de Pasajeros\n" +
		"2024-03-01,Iosu,\"Lide\",1\n" +
		"2024-03-02,Asier,\"\",0\n"

	if got := RidesCSV(trips, seat); got != want {
		t.Errorf("RidesCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestRidesCSV_ThirdsUseThreeDecimals(t *testing.T) {
	trips := []models.Trip{
		{Date: "2024-03-01", Driver: "Iosu", Passengers: []string{"Lide", "Asier"}},
	}
	seat, _ := balancesFor(t, trips)

	want := "Persona,Balance\n" +
		"Lide,-0.333\n" +
		"Asier,-0.333\n" +
		"Itziar,0.000\n" +
		"Iosu,0.667\n" +
		"\n" +
		"Fecha,Conductor,Pasajeros,Número de Pasajeros\n" +
		"2024-03-01,Iosu,\"Lide|Asier\",2\n"

	if got := RidesCSV(trips, seat); got != want {
		t.Errorf("RidesCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestMoneyCSV(t *testing.T) {
	trips := []models.Trip{
		{Date: "2024-03-01", Driver: "Iosu", Passengers: []string{"Lide", "Asier"}, Cost: 30},
		{Date: "2024-03-02", Driver: "Lide", Passengers: []string{"Iosu"}, Cost: 0},
	}
	_, money := balancesFor(t, trips)
	transfers := calculator.SettleMinimalTransfers(money)

	want := "Persona,Saldo (€)\n" +
		"Iosu,-20.00\n" +
		"Lide,10.00\n" +
		"Asier,10.00\n" +
		"Itziar,0.00\n" +
		"\n" +
		"Pagos mínimos para saldar deudas:\n" +
		"Deudor,Acreedor,Cantidad (€)\n" +
		"Iosu,Lide,10.00\n" +
		"Iosu,Asier,10.00\n" +
		"\n" +
		"Fecha,Conductor,Pasajeros,Dinero Total,Dinero por Persona\n" +
		"2024-03-01,Iosu,\"Lide|Asier\",30.00,10.00\n"

	if got := MoneyCSV(trips, money, transfers); got != want {
		t.Errorf("MoneyCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestEmptyTrips(t *testing.T) {
	seat, money := balancesFor(t, nil)

	wantRides := "Persona,Balance\n" +
		"Iosu,0.000\n" +
		"Lide,0.000\n" +
		"Asier,0.000\n" +
		"Itziar,0.000\n" +
		"\n" +
		"Fecha,Conductor,Pasajeros,Número de Pasajeros\n"
	if got := RidesCSV(nil, seat); got != wantRides {
		t.Errorf("RidesCSV() =\n%s\nwant\n%s", got, wantRides)
	}

	// No transfers: the settlement block is left out entirely.
	wantMoney := "Persona,Saldo (€)\n" +
		"Iosu,0.00\n" +
		"Lide,0.00\n" +
		"Asier,0.00\n" +
		"Itziar,0.00\n" +
		"\n" +
		"Fecha,Conductor,Pasajeros,Dinero Total,Dinero por Persona\n"
	if got := MoneyCSV(nil, money, nil); got != wantMoney {
		t.Errorf("MoneyCSV() =\n%s\nwant\n%s", got, wantMoney)
	}
}
