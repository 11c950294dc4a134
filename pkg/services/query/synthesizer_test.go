package query

import (
	"strings"
	"testing"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/services/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	s := NewSynthesizer()

	tests := []struct {
		name         string
		intent       domain.Intent
		expectedArgs []any
		wantWhere    bool
	}{
		{
			name:         "last 2 months",
			intent:       domain.Intent{Metric: domain.MetricRevenue, Range: domain.RangeLast2Months},
			expectedArgs: []any{2},
		},
		{
			name:         "last 3 months",
			intent:       domain.Intent{Metric: domain.MetricOrders, Range: domain.RangeLast3Months},
			expectedArgs: []any{3},
		},
		{
			name:         "last 6 months",
			intent:       domain.Intent{Metric: domain.MetricAOV, Range: domain.RangeLast6Months},
			expectedArgs: []any{6},
		},
		{
			name:      "ytd has no limit",
			intent:    domain.Intent{Metric: domain.MetricCustomers, Range: domain.RangeYTD},
			wantWhere: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := s.Build(tt.intent)
			require.NoError(t, err)

			assert.Equal(t, tt.intent.Metric, q.Metric)
			assert.Equal(t, tt.intent.Range, q.Range)
			assert.Contains(t, q.Text, "FROM kpi_monthly")
			assert.Contains(t, q.Text, "ORDER BY month DESC")
			assert.Equal(t, tt.expectedArgs, q.Args)

			if tt.wantWhere {
				assert.Contains(t, q.Text, "date_trunc('year'")
				assert.NotContains(t, q.Text, "LIMIT")
			} else {
				assert.Contains(t, q.Text, "LIMIT $1")
			}
		})
	}
}

func TestBuild_InvalidMetric(t *testing.T) {
	s := NewSynthesizer()

	_, err := s.Build(domain.Intent{Metric: domain.Metric("margin"), Range: domain.RangeLast3Months})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMetric)
}

// The query text must only ever be built from enum-derived fragments:
// whatever the user asked, the question text never shows up in the SQL.
func TestBuild_NeverContainsQuestionText(t *testing.T) {
	p := intent.NewDefaultParser()
	s := NewSynthesizer()

	questions := []string{
		"Why did revenue drop last quarter?",
		"orders'; DROP TABLE kpi_monthly; --",
		"show me ALL THE THINGS ytd",
	}

	for _, question := range questions {
		q, err := s.Build(p.Parse(question))
		require.NoError(t, err)

		for _, word := range []string{"drop table", "why", "things", "--", ";"} {
			assert.False(t, strings.Contains(strings.ToLower(q.Text), word),
				"query %q leaked %q from question %q", q.Text, word, question)
		}
	}
}
