package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregatorCounters(t *testing.T) {
	tests := []struct {
		name              string
		outcome           Outcome
		expectedProcessed int
		expectedSkipped   int
		expectedErrored   int
	}{
		{
			name:              "Processed",
			outcome:           Outcome{Class: ClassProcessed},
			expectedProcessed: 1,
		},
		{
			name:            "Skipped on rejection",
			outcome:         Outcome{Class: ClassSkipped, Reason: ReasonMissingAccountName},
			expectedSkipped: 1,
		},
		{
			name:            "Skipped on existing account",
			outcome:         Outcome{Class: ClassSkipped, Reason: ReasonExistingKept},
			expectedSkipped: 1,
		},
		{
			name:            "OU setup failure counts as skipped and errored",
			outcome:         Outcome{Class: ClassSkipped, Reason: ReasonOUSetupFailed},
			expectedSkipped: 1,
			expectedErrored: 1,
		},
		{
			name:            "Create failure counts as skipped and errored",
			outcome:         Outcome{Class: ClassError, Reason: ReasonCreateFailed},
			expectedSkipped: 1,
			expectedErrored: 1,
		},
		{
			name:            "Delete failure counts as skipped and errored",
			outcome:         Outcome{Class: ClassError, Reason: ReasonDeleteFailed},
			expectedSkipped: 1,
			expectedErrored: 1,
		},
		{
			name:              "Group add failures count as processed and errored",
			outcome:           Outcome{Class: ClassError, Reason: ReasonGroupAddFailures, GroupsAdded: 2, GroupsFailed: 1},
			expectedProcessed: 1,
			expectedErrored:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator()
			agg.Record(tt.outcome)

			summary := agg.Summary()
			assert.Equal(t, tt.expectedProcessed, summary.Processed)
			assert.Equal(t, tt.expectedSkipped, summary.Skipped)
			assert.Equal(t, tt.expectedErrored, summary.Errored)
			assert.Len(t, summary.Outcomes, 1)
		})
	}
}

func TestAggregatorAccumulates(t *testing.T) {
	agg := NewAggregator()
	agg.Record(Outcome{Account: "a", Class: ClassProcessed})
	agg.Record(Outcome{Account: "b", Class: ClassSkipped, Reason: ReasonExistingKept})
	agg.Record(Outcome{Account: "c", Class: ClassError, Reason: ReasonCreateFailed})
	agg.Record(Outcome{Account: "d", Class: ClassError, Reason: ReasonGroupAddFailures})

	summary := agg.Summary()
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.Errored)
	assert.Len(t, summary.Outcomes, 4)
	assert.NotEqual(t, uuid.Nil, summary.RunID)
}
