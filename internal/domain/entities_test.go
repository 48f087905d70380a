package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Valid(t *testing.T) {
	tests := []struct {
		verdict Verdict
		want    bool
	}{
		{VerdictStrongFit, true},
		{VerdictWorthConversation, true},
		{VerdictProbablyNot, true},
		{"maybe", false},
		{"", false},
		{"STRONG_FIT", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.verdict.Valid())
		})
	}
}

func TestCandidateSnapshot_HonestyLevel(t *testing.T) {
	level := 3

	assert.Equal(t, DefaultHonestyLevel, CandidateSnapshot{}.HonestyLevel())
	assert.Equal(t, DefaultHonestyLevel, CandidateSnapshot{Values: &ValuesCulture{}}.HonestyLevel())
	assert.Equal(t, 3, CandidateSnapshot{Values: &ValuesCulture{HonestyLevel: &level}}.HonestyLevel())
}
