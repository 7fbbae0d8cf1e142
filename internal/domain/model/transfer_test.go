//go:build !integration

package model_test

import (
	"testing"

	"telegram-group-transfer/internal/domain/model"
)

func TestJobStateTerminal(t *testing.T) {
	terminal := map[model.JobState]bool{
		model.JobStatePending:      false,
		model.JobStateScraping:     false,
		model.JobStateTransferring: false,
		model.JobStateCompleted:    true,
		model.JobStateCancelled:    true,
		model.JobStateFatal:        true,
	}
	for state, want := range terminal {
		if got := state.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", state, got, want)
		}
	}
}

func TestSummaryStarted(t *testing.T) {
	if (model.Summary{}).Started() {
		t.Error("empty summary should not count as started")
	}
	if !(model.Summary{Skipped: 1}).Started() {
		t.Error("a skipped member still means the transfer started")
	}
	if !(model.Summary{Failed: 2}).Started() {
		t.Error("failed members mean the transfer started")
	}
}
