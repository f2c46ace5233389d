// Package dashboard turns one read of the email log into the dashboard's
// three figures.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/maildash/internal/chart"
	"github.com/verte-zerg/maildash/internal/metrics"
	"github.com/verte-zerg/maildash/internal/model"
	"github.com/verte-zerg/maildash/internal/stats"
)

// Source loads a snapshot of the email log.
type Source interface {
	Load(ctx context.Context) (model.EmailLog, error)
}

// Dashboard is the result of one refresh. Figures are always ordered folder
// pie, score histogram, top-emails bar.
type Dashboard struct {
	Report  stats.Report   `json:"-" yaml:"-"`
	Figures []chart.Figure `json:"figures" yaml:"figures"`
	Rows    int            `json:"rows" yaml:"rows"`
	Skipped int            `json:"skipped" yaml:"skipped"`
}

// Figure returns the figure with the given id.
func (d Dashboard) Figure(id string) (chart.Figure, bool) {
	for _, f := range d.Figures {
		if f.ID == id {
			return f, true
		}
	}
	return chart.Figure{}, false
}

// Refresher rebuilds the dashboard from its source on every call. It keeps no
// state between calls and is safe for concurrent use when the source is.
type Refresher struct {
	source Source
	charts model.ChartConfig
	logger *zap.Logger
}

// NewRefresher constructs a Refresher. Non-positive bin and top counts fall
// back to the defaults.
func NewRefresher(src Source, cfg model.ChartConfig, logger *zap.Logger) *Refresher {
	if cfg.Bins <= 0 {
		cfg.Bins = stats.DefaultBins
	}
	if cfg.Top <= 0 {
		cfg.Top = stats.DefaultTop
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{source: src, charts: cfg, logger: logger}
}

// Charts returns the effective chart settings.
func (r *Refresher) Charts() model.ChartConfig {
	return r.charts
}

// Refresh reads the log once and builds every figure from that snapshot.
func (r *Refresher) Refresh(ctx context.Context) (Dashboard, error) {
	start := time.Now()
	log, err := r.source.Load(ctx)
	if err != nil {
		elapsed := time.Since(start)
		metrics.RecordRefresh(metrics.StatusError, elapsed, 0, 0)
		r.logger.Error("refresh failed", zap.Error(err), zap.Duration("duration", elapsed))
		return Dashboard{}, fmt.Errorf("failed to load email log: %w", err)
	}

	d := Build(log, r.charts)
	elapsed := time.Since(start)
	metrics.RecordRefresh(metrics.StatusOK, elapsed, d.Rows, d.Skipped)
	r.logger.Debug("refresh complete",
		zap.Int("rows", d.Rows),
		zap.Int("skipped", d.Skipped),
		zap.Int("folders", len(d.Report.Folders)),
		zap.Duration("duration", elapsed),
	)
	return d, nil
}

// Build aggregates an already loaded log into a dashboard.
func Build(log model.EmailLog, cfg model.ChartConfig) Dashboard {
	report := stats.BuildReport(log, cfg.Bins, cfg.Top)
	return Dashboard{
		Report: report,
		Figures: []chart.Figure{
			chart.FolderPie(report.Folders),
			chart.ScoreHistogram(log.Scores(), report.Bins, cfg.Bins),
			chart.TopEmailsBar(report.Top),
		},
		Rows:    log.Len(),
		Skipped: log.Skipped,
	}
}
