package monitor

import (
	"context"
	"time"

	"bizsaver/internal/catalog"
	"bizsaver/internal/engine"
	"bizsaver/internal/logger"
	"bizsaver/internal/models"
	sentryutil "bizsaver/internal/sentry"
	"bizsaver/internal/store"

	"github.com/getsentry/sentry-go"
)

// DefaultThreshold is the minimum annual saving delta (EUR/year) required
// to consider a re-evaluation materially better.
const DefaultThreshold = 10.0

// Outcome classifies one re-evaluated analysis.
type Outcome int

const (
	OutcomeNoAlternatives Outcome = iota
	OutcomeUnchanged
	OutcomeImproved
)

// Notifier receives the genuinely new opportunities found in one pass.
type Notifier interface {
	SendImprovements(improvements []models.Improvement) error
}

// Runner re-evaluates all stored analyses against the current catalog.
type Runner struct {
	store     *store.Store
	catalog   *catalog.Catalog
	notifier  Notifier
	threshold float64
}

func NewRunner(st *store.Store, cat *catalog.Catalog, notifier Notifier, threshold float64) *Runner {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Runner{store: st, catalog: cat, notifier: notifier, threshold: threshold}
}

// Classify computes the monitor outcome for one stored analysis given the
// freshly computed suggestions. Pure: no I/O, deterministic for a fixed now.
//
// A non-nil Improvement is returned only for opportunities worth notifying:
// never flagged before, or clearly better than the last notified saving.
func Classify(row models.Analysis, suggestions []models.SuggestedAlternative, threshold float64, now time.Time) (models.MonitorUpdate, *models.Improvement, Outcome) {
	upd := models.MonitorUpdate{ID: row.ID, LastMonitoredAt: now}

	if len(suggestions) == 0 {
		// Nessuna alternativa migliore oggi: stato azzerato.
		return upd, nil, OutcomeNoAlternatives
	}

	best := suggestions[0]
	newSaving := best.RisparmioAnnuoStimato
	oldSaving := row.MigliorRisparmioAnnuo

	if newSaving <= oldSaving+threshold {
		// Sotto soglia: lo stato precedente resta invariato.
		upd.HasNewBetterOffer = row.HasNewBetterOffer
		upd.NewBestSaving = row.NewBestSaving
		upd.MonitorBestAlternative = row.MonitorBestAlternative
		return upd, nil, OutcomeUnchanged
	}

	upd.HasNewBetterOffer = true
	upd.NewBestSaving = &newSaving
	upd.MonitorBestAlternative = &best

	prevNotified := 0.0
	if row.NewBestSaving != nil {
		prevNotified = *row.NewBestSaving
	}
	if !row.HasNewBetterOffer || newSaving > prevNotified+threshold {
		return upd, &models.Improvement{
			AnalysisID: row.ID,
			Filename:   row.Filename,
			Categoria:  row.Categoria,
			Fornitore:  row.FornitoreAttuale,
			OldSaving:  oldSaving,
			NewSaving:  newSaving,
			Best:       best,
			Timestamp:  now,
		}, OutcomeImproved
	}
	// Stessa opportunità già segnalata in un run precedente.
	return upd, nil, OutcomeImproved
}

// Run performs one monitor pass: re-suggests for every stored analysis,
// classifies the outcome, persists the per-row updates and hands the new
// improvements to the notifier. Persistence and notification failures are
// logged, never propagated: the report is always returned.
func (r *Runner) Run(ctx context.Context) (models.MonitorReport, error) {
	now := time.Now().UTC()
	report := models.MonitorReport{Timestamp: now}

	rows, err := r.store.All()
	if err != nil {
		sentryutil.CaptureError(err, map[string]string{"component": "monitor", "phase": "load"})
		return report, err
	}
	report.Checked = len(rows)

	updates := make([]models.MonitorUpdate, 0, len(rows))
	var improvements []models.Improvement

	for _, row := range rows {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		monthly := row.SpesaMensileAttuale
		if monthly <= 0 {
			monthly = row.SpesaAnnuaAttuale / 12
		}

		suggestions := engine.Suggest(r.catalog, engine.SuggestInput{
			Categoria:           row.Categoria,
			SpesaMensileAttuale: monthly,
			TipoDocumento:       row.TipoDocumento,
		})

		upd, imp, outcome := Classify(row, suggestions, r.threshold, now)
		updates = append(updates, upd)

		switch outcome {
		case OutcomeNoAlternatives:
			report.NoAlternatives++
		case OutcomeImproved:
			report.Improved++
		default:
			report.Unchanged++
		}

		if imp != nil {
			improvements = append(improvements, *imp)
		}
	}

	applied := r.store.UpsertMonitor(updates)
	if applied < len(updates) {
		logger.Warn("monitor: partial batch persisted", map[string]interface{}{
			"applied": applied, "total": len(updates),
		})
		sentryutil.CaptureMessage("monitor: partial batch persisted", sentry.LevelWarning,
			map[string]string{"component": "monitor"})
	}

	if len(improvements) > 0 {
		RecordImprovements(improvements)
		if r.notifier != nil {
			if err := r.notifier.SendImprovements(improvements); err != nil {
				logger.Error("monitor: notification failed", map[string]interface{}{"error": err.Error()})
				sentryutil.CaptureError(err, map[string]string{"component": "monitor", "phase": "notify"})
			}
		}
	}

	logger.Info("monitor run completed", map[string]interface{}{
		"checked": report.Checked, "improved": report.Improved,
		"unchanged": report.Unchanged, "no_alternatives": report.NoAlternatives,
	})
	return report, nil
}
