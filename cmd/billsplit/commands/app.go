package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/contacts"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/internal/share"
	"github.com/mmynk/billsplit/internal/state"
	"github.com/mmynk/billsplit/internal/storage/sqlite"
)

// app is the dependency graph shared by subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	store    *state.Store
	history  *sqlite.SQLiteStore
	contacts contacts.Source

	split  *service.SplitService
	review *service.ReviewService

	snapshots *state.Subscription
}

func newApp(cfg *config.Config, logger *slog.Logger, out io.Writer, contactsPath string) (*app, error) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	currency := cfg.Split.Currency()
	store := state.New(
		state.WithLogger(logger),
		state.WithMetrics(m),
		state.WithDefaults(func() models.BillSplit {
			return models.NewBillSplit().WithCurrency(currency)
		}),
	)

	history, err := sqlite.New(cfg.History.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	source, err := loadContacts(contactsPath)
	if err != nil {
		history.Close()
		return nil, err
	}

	dispatcher := middleware.Chain(
		share.NewWriterDispatcher(out),
		middleware.LoggingDispatcher(logger),
		middleware.MetricsDispatcher(m),
	)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  m,
		store:    store,
		history:  history,
		contacts: source,
		split:    service.NewSplitService(store, m, logger),
		review: service.NewReviewService(store, dispatcher, cfg.Share.Presence(),
			service.WithHistory(history),
			service.WithMessageOptions(cfg.Message.Options()),
			service.WithReviewLogger(logger),
		),
	}

	a.snapshots = store.Subscribe(func(snap state.Snapshot) {
		logger.Debug("split snapshot",
			"version", snap.Version,
			"currency", snap.Split.Currency.Code,
			"total", snap.Split.TotalAmount.String(),
			"participants", len(snap.Split.Participants),
		)
	})

	return a, nil
}

func loadContacts(path string) (contacts.Source, error) {
	if path == "" {
		return contacts.NewStaticSource(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open contacts: %w", err)
	}
	defer f.Close()

	list, err := contacts.ReadJSON(f)
	if err != nil {
		return nil, err
	}
	return contacts.NewStaticSource(list...), nil
}

// writeMetrics dumps every collected metric in the Prometheus text format.
func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func (a *app) Close() error {
	a.snapshots.Close()
	a.store.Close()
	return a.history.Close()
}
