package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Settings is the provisioning policy for one run, resolved from
// configuration before the engine starts.
type Settings struct {
	// BaseDN is the container all leaf OUs are created under.
	BaseDN string

	DefaultMail           string
	StandardPassword      string
	ElevatedPassword      string
	HomeDirectoryTemplate string
	UPNSuffix             string
	DeleteExisting        bool
	ElevatedGroups        []string
}

// RecordSource yields positional records one at a time. Next returns
// io.EOF when the source is exhausted; any other error aborts the run.
type RecordSource interface {
	Next() ([]string, error)
}

// Engine drives a full reconciliation run: it pulls records from a
// source, pushes each through normalize, OU resolution and account
// reconciliation, and folds the outcomes into a run summary. Records are
// processed strictly in input order and one record's failure never stops
// the run.
type Engine struct {
	backend  Backend
	settings Settings
	log      zerolog.Logger
}

// New creates an engine over the backend with the run's settings.
func New(backend Backend, settings Settings, logger zerolog.Logger) *Engine {
	return &Engine{backend: backend, settings: settings, log: logger}
}

// Run consumes the source to exhaustion and returns the run summary. Only
// a source read error is fatal; everything per-record is classified and
// counted instead.
func (e *Engine) Run(ctx context.Context, src RecordSource) (*Summary, error) {
	resolver := NewOUResolver(e.backend, e.settings.BaseDN, e.log)
	users := NewUserReconciler(e.backend, e.settings, e.log)
	agg := NewAggregator()

	for line := 1; ; line++ {
		fields, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record source failed at record %d: %w", line, err)
		}

		outcome := e.processRecord(ctx, resolver, users, fields)
		agg.Record(outcome)

		evt := e.log.Info()
		if outcome.Class == ClassError {
			evt = e.log.Error()
		}
		evt.Int("record", line).
			Str("account", outcome.Account).
			Str("class", string(outcome.Class)).
			Str("reason", string(outcome.Reason)).
			Msg("record finished")
	}

	summary := agg.Summary()
	e.log.Info().
		Str("run_id", summary.RunID.String()).
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("run finished")
	return summary, nil
}

// processRecord takes one raw record to its terminal outcome.
func (e *Engine) processRecord(ctx context.Context, resolver *OUResolver, users *UserReconciler, fields []string) Outcome {
	directive, err := NormalizeRecord(fields, e.settings.DefaultMail)
	if err != nil {
		reason := ReasonMissingAccountName
		if errors.Is(err, ErrMissingOU) {
			reason = ReasonMissingOU
		}
		account := ""
		if len(fields) > 0 {
			account = clean(fields[0])
		}
		return Outcome{Account: account, Class: ClassSkipped, Reason: reason, Detail: err.Error()}
	}

	parentDN, err := resolver.Ensure(ctx, directive.OUComponent)
	if err != nil {
		return Outcome{
			Account: directive.SAMAccountName,
			Class:   ClassSkipped,
			Reason:  ReasonOUSetupFailed,
			Detail:  err.Error(),
		}
	}

	directive.Tier = ClassifyTier(directive.MemberOf, e.settings.ElevatedGroups)

	return users.Reconcile(ctx, directive, parentDN)
}
