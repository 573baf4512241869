package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Severity vocabulary
// =============================================================================

func TestSeverity_Names(t *testing.T) {
	assert.Equal(t, "LOW", SeverityLow.String())
	assert.Equal(t, "MEDIUM", SeverityMedium.String())
	assert.Equal(t, "HIGH", SeverityHigh.String())
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "UNKNOWN", SeverityCount.String())
}

func TestSeverity_OrderIsTotal(t *testing.T) {
	assert.True(t, SeverityCritical > SeverityHigh)
	assert.True(t, SeverityHigh > SeverityMedium)
	assert.True(t, SeverityMedium > SeverityLow)
}

func TestSeverityFromName(t *testing.T) {
	s, ok := SeverityFromName("HIGH")
	require.True(t, ok)
	assert.Equal(t, SeverityHigh, s)

	_, ok = SeverityFromName("SEVERE")
	assert.False(t, ok)
}

func TestSeverity_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(SeverityCritical)
	require.NoError(t, err)
	assert.Equal(t, `"CRITICAL"`, string(data))

	var s Severity
	require.NoError(t, json.Unmarshal([]byte(`"MEDIUM"`), &s))
	assert.Equal(t, SeverityMedium, s)

	assert.Error(t, json.Unmarshal([]byte(`"SEVERE"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`7`), &s))
}

// =============================================================================
// Signal types and actions
// =============================================================================

func TestType_Names(t *testing.T) {
	var names []string
	for typ := Type(0); typ < typeCount; typ++ {
		names = append(names, typ.String())
	}
	assert.Equal(t, []string{
		"NO_ROWS",
		"LOW_CONFIDENCE",
		"LOW_FIELD_COVERAGE",
		"STRUCTURAL_ANOMALY",
		"LOGIC_FAILURE",
		"UNKNOWN_TEMPLATE",
	}, names)
	assert.Equal(t, "UNKNOWN", typeCount.String())
}

func TestAction_Names(t *testing.T) {
	assert.Equal(t, "LOG_ONLY", ActionLogOnly.String())
	assert.Equal(t, "REVIEW_RECOMMENDED", ActionReviewRecommended.String())
	assert.Equal(t, "MANUAL_REVIEW", ActionManualReview.String())
}

// =============================================================================
// Signal sets
// =============================================================================

func TestSignalSet_SummarizeCountsBySeverity(t *testing.T) {
	var set SignalSet
	set.Add(Signal{Type: TypeLogicFailure, Severity: SeverityCritical})
	set.Add(Signal{Type: TypeLowConfidence, Severity: SeverityHigh})
	set.Add(Signal{Type: TypeLowFieldCoverage, Severity: SeverityHigh})
	set.Add(Signal{Type: TypeStructuralAnomaly, Severity: SeverityMedium})
	set.Add(Signal{Type: TypeUnknownTemplate, Severity: SeverityLow})

	sum := set.Summarize()
	assert.Equal(t, 5, sum.TotalSignals)
	assert.Equal(t, 1, sum.CriticalCount)
	assert.Equal(t, 2, sum.HighCount)
	assert.Equal(t, 1, sum.MediumCount)
	assert.Equal(t, 1, sum.LowCount)
	assert.Len(t, sum.Signals, 5)
	assert.True(t, set.HasCritical())
}

func TestSignalSet_EmptySummary(t *testing.T) {
	var set SignalSet

	sum := set.Summarize()
	assert.Zero(t, sum.TotalSignals)
	assert.NotNil(t, sum.Signals)
	assert.Empty(t, sum.Signals)
	assert.False(t, set.HasCritical())
}

func TestSignalSet_JSONShape(t *testing.T) {
	var set SignalSet
	set.Add(Signal{
		Type:     TypeNoRows,
		Severity: SeverityCritical,
		Action:   ActionManualReview,
		Message:  "No transaction rows extracted",
	})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_signals": 1,
		"critical_count": 1,
		"high_count": 0,
		"medium_count": 0,
		"low_count": 0,
		"signals": [
			{
				"type": "NO_ROWS",
				"severity": "CRITICAL",
				"action": "MANUAL_REVIEW",
				"message": "No transaction rows extracted"
			}
		]
	}`, string(data))
}
