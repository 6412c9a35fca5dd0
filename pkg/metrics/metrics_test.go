package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordEvent("suite")
	m.RecordEvent("suite")
	m.RecordEvent("test end")
	m.RecordTest("failed")
	m.RecordPropagation()
	m.SetOpenScopes(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("suite")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsTotal.WithLabelValues("test end")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.testsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.propagationsTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.openScopes))

	err := testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP suite_reporter_open_scopes Number of open scopes including the root
# TYPE suite_reporter_open_scopes gauge
suite_reporter_open_scopes 3
`), "suite_reporter_open_scopes")
	require.NoError(t, err)
}

func TestMetrics_NilRegistry(t *testing.T) {
	a := New(nil)
	b := New(nil)
	a.RecordEvent("suite")
	b.RecordEvent("suite")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.eventsTotal.WithLabelValues("suite")))
}
