package reconcile

import (
	"github.com/google/uuid"
)

// Classification is the terminal state of one record.
type Classification string

const (
	ClassProcessed Classification = "PROCESSED"
	ClassSkipped   Classification = "SKIPPED"
	ClassError     Classification = "ERROR"
)

// Reason narrows a non-processed classification.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonMissingAccountName Reason = "missing-account-name"
	ReasonMissingOU          Reason = "missing-ou"
	ReasonOUSetupFailed      Reason = "ou-setup-failed"
	ReasonExistingKept       Reason = "existing-deletion-disabled"
	ReasonLookupFailed       Reason = "lookup-failed"
	ReasonDeleteFailed       Reason = "delete-failed"
	ReasonCreateFailed       Reason = "create-failed"
	ReasonGroupAddFailures   Reason = "group-add-failures"
)

// Outcome is the classified result of one record's pipeline run.
type Outcome struct {
	Account      string
	Class        Classification
	Reason       Reason
	Detail       string
	GroupsAdded  int
	GroupsFailed int
}

// Summary is the immutable result of a run: three counters that must be
// consistent with the per-record outcome log.
type Summary struct {
	RunID     uuid.UUID
	Processed int
	Skipped   int
	Errored   int
	Outcomes  []Outcome
}

// Aggregator accumulates per-record outcomes. It is owned by the
// orchestration loop and mutated only there.
type Aggregator struct {
	summary Summary
}

// NewAggregator creates an aggregator for a fresh run.
func NewAggregator() *Aggregator {
	return &Aggregator{summary: Summary{RunID: uuid.New()}}
}

// Record folds one terminal outcome into the counters. Every outcome
// increments exactly one primary counter (processed or skipped); an error
// classification additionally increments errored, and an infrastructure
// skip (OU setup failure) counts as both skipped and errored. A record
// whose account converged but whose group sync partially failed counts as
// both processed and errored.
func (a *Aggregator) Record(o Outcome) {
	a.summary.Outcomes = append(a.summary.Outcomes, o)

	switch {
	case o.Class == ClassProcessed:
		a.summary.Processed++
	case o.Class == ClassError && o.Reason == ReasonGroupAddFailures:
		a.summary.Processed++
		a.summary.Errored++
	case o.Class == ClassError:
		a.summary.Skipped++
		a.summary.Errored++
	case o.Reason == ReasonOUSetupFailed:
		a.summary.Skipped++
		a.summary.Errored++
	default:
		a.summary.Skipped++
	}
}

// Summary returns the accumulated run summary.
func (a *Aggregator) Summary() *Summary {
	s := a.summary
	return &s
}
