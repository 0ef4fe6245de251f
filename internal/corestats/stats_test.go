package corestats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAggregatesPhasesInCallOrder(t *testing.T) {
	c := NewCollector(4, 120)
	c.AddPhase("generate", 10*time.Millisecond)
	c.AddPhase("solve", 20*time.Millisecond)
	c.AddPhase("generate", 5*time.Millisecond)
	c.AddIterations(7)

	report := c.Report()
	assert.Equal(t, 4, report.Threads)
	assert.Equal(t, 120, report.Lines)
	assert.Equal(t, 7, report.Iterations)
	require.Len(t, report.Phases, 2)
	assert.Equal(t, "generate", report.Phases[0].Phase)
	assert.Equal(t, 15*time.Millisecond, report.Phases[0].Time)
	assert.Equal(t, "solve", report.Phases[1].Phase)
}

func TestThroughputComputesMinMaxAvgMedianOddCount(t *testing.T) {
	c := NewCollector(1, 0)
	c.AddRate(1.0)
	c.AddRate(3.0)
	c.AddRate(2.0)

	th := c.Report().Throughput
	assert.Equal(t, 1.0, th.Min)
	assert.Equal(t, 3.0, th.Max)
	assert.InDelta(t, 2.0, th.Avg, 1e-9)
	assert.Equal(t, 2.0, th.Median)
}

func TestThroughputMedianEvenCountAverages(t *testing.T) {
	c := NewCollector(1, 0)
	c.AddRate(1.0)
	c.AddRate(2.0)
	c.AddRate(3.0)
	c.AddRate(4.0)

	th := c.Report().Throughput
	assert.Equal(t, 2.5, th.Median)
}

func TestReportMarshalsToJSON(t *testing.T) {
	c := NewCollector(2, 10)
	c.AddPhase("generate", time.Millisecond)
	report := c.Report()

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["threads"])
	assert.Contains(t, decoded, "phases")
	assert.Contains(t, decoded, "throughput")
}

func TestEmptyCollectorReportHasZeroThroughput(t *testing.T) {
	c := NewCollector(1, 0)
	report := c.Report()
	assert.Equal(t, Throughput{}, report.Throughput)
}
