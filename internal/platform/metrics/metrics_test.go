package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.PlantCreated()
	m.PlantCreated()
	m.ImagesStored(3)
	m.ImagesStored(0)
	m.WorkflowFailed(StageUpload)
	m.SessionEvent("signed_out")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlantsCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImagesUploaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WorkflowFailures.WithLabelValues(StageUpload)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WorkflowFailures.WithLabelValues(StageInsert)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionEvents.WithLabelValues("signed_out")))
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PlantCreated()
		m.ImagesStored(1)
		m.WorkflowFailed(StageAttach)
		m.SessionEvent("signed_in")
	})
}
