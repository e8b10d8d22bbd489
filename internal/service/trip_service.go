// Package service wires the balance engine, the report formatter and the
// record store together.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iosugomez/kotxea/internal/calculator"
	"github.com/iosugomez/kotxea/internal/metrics"
	"github.com/iosugomez/kotxea/internal/models"
	"github.com/iosugomez/kotxea/internal/report"
	"github.com/iosugomez/kotxea/internal/storage"
)

// ReportKind names one of the stored CSV exports.
type ReportKind string

const (
	ReportRides ReportKind = "viajes"
	ReportMoney ReportKind = "dinero"
)

// Paths locates the stored files inside the record store.
type Paths struct {
	Data  string
	Rides string
	Money string
}

// DefaultPaths are the locations used by the historical repository layout.
var DefaultPaths = Paths{
	Data:  "datos/datos.json",
	Rides: "datos/viajes.csv",
	Money: "datos/dinero.csv",
}

// TripService persists trips and derives balances and reports from them.
type TripService struct {
	store  storage.Store
	engine *calculator.Engine
	paths  Paths
	now    func() time.Time
}

// NewTripService creates a new TripService with the given storage backend and
// balance engine.
func NewTripService(store storage.Store, engine *calculator.Engine, paths Paths) *TripService {
	return &TripService{
		store:  store,
		engine: engine,
		paths:  paths,
		now:    time.Now,
	}
}

// toBalanceInput converts trips to calculator input.
func toBalanceInput(trips []models.Trip) []calculator.TripForBalance {
	out := make([]calculator.TripForBalance, len(trips))
	for i, t := range trips {
		out[i] = calculator.TripForBalance{
			Driver:     t.Driver,
			Passengers: t.Passengers,
			Cost:       decimal.NewFromFloat(t.Cost),
		}
	}
	return out
}

// Save validates the trips, renders both reports and writes the trip list and
// the reports to the store in one atomic update.
func (s *TripService) Save(ctx context.Context, trips []models.Trip) error {
	if len(trips) == 0 {
		return ErrNoData
	}

	normalized := make([]models.Trip, len(trips))
	for i, t := range trips {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trip %d: %w", i, err)
		}
		normalized[i] = t.Normalize()
	}

	input := toBalanceInput(normalized)
	seat, err := s.engine.SeatBalances(input)
	if err != nil {
		return err
	}
	money, err := s.engine.MoneyBalances(input)
	if err != nil {
		return err
	}
	transfers := calculator.SettleMinimalTransfers(money)

	data, err := encodeTrips(normalized)
	if err != nil {
		return fmt.Errorf("failed to encode trips: %w", err)
	}

	files := []storage.File{
		{Path: s.paths.Data, Content: data},
		{Path: s.paths.Rides, Content: []byte(report.RidesCSV(normalized, seat))},
		{Path: s.paths.Money, Content: []byte(report.MoneyCSV(normalized, money, transfers))},
	}

	revision, err := s.store.WriteFiles(ctx, s.commitMessage(files), files)
	if err != nil {
		slog.Error("Save failed", "trips", len(normalized), "error", err)
		return &StoreWriteError{Err: err}
	}

	metrics.TripsSaved.Set(float64(len(normalized)))
	slog.Info("Trips saved",
		"trips", len(normalized),
		"transfers", len(transfers),
		"revision", revision,
	)
	return nil
}

// commitMessage names the saved files and stamps the save time.
func (s *TripService) commitMessage(files []storage.File) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = path.Base(f.Path)
	}
	return fmt.Sprintf("Update %s %s", strings.Join(names, ", "), s.now().Format(time.RFC3339))
}

// encodeTrips renders the trip list as indented JSON, keeping non-ASCII
// characters literal.
func encodeTrips(trips []models.Trip) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trips); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Records returns the stored trip list as raw JSON. A missing or empty file
// reads as an empty list.
func (s *TripService) Records(ctx context.Context) ([]byte, error) {
	content, err := s.store.ReadFile(ctx, s.paths.Data)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && len(bytes.TrimSpace(content)) == 0) {
		return []byte("[]"), nil
	}
	if err != nil {
		slog.Error("Records failed", "path", s.paths.Data, "error", err)
		return nil, err
	}
	return content, nil
}

// Report returns a stored CSV export. A missing or empty file yields
// storage.ErrNotFound.
func (s *TripService) Report(ctx context.Context, kind ReportKind) ([]byte, error) {
	var p string
	switch kind {
	case ReportRides:
		p = s.paths.Rides
	case ReportMoney:
		p = s.paths.Money
	default:
		return nil, fmt.Errorf("%w: unknown report %q", storage.ErrNotFound, kind)
	}

	content, err := s.store.ReadFile(ctx, p)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("Report failed", "path", p, "error", err)
		}
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", storage.ErrNotFound, p)
	}
	return content, nil
}

// Settle computes the money balances and the transfers that settle them,
// without touching the store.
func (s *TripService) Settle(trips []models.Trip) (*models.Settlement, error) {
	if len(trips) == 0 {
		return nil, ErrNoData
	}

	money, err := s.engine.MoneyBalances(toBalanceInput(trips))
	if err != nil {
		return nil, err
	}
	transfers := calculator.SettleMinimalTransfers(money)
	metrics.TransfersTotal.Add(float64(len(transfers)))

	out := &models.Settlement{
		Transfers: make([]models.Transfer, len(transfers)),
		Balances:  money.Rounded(),
	}
	for i, tr := range transfers {
		out.Transfers[i] = models.Transfer{
			From:   tr.From,
			To:     tr.To,
			Amount: tr.Amount.InexactFloat64(),
		}
	}

	slog.Debug("Settlement computed", "trips", len(trips), "transfers", len(transfers))
	return out, nil
}
