package telemetry

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMetricBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("samples stay within physical bounds", prop.ForAll(
		func(epoch, batch int) bool {
			m := GenerateMetric(1, epoch, batch, batch+1)
			return m.Loss >= 0.01 &&
				m.Accuracy >= 0 && m.Accuracy <= 100 &&
				m.GPUUsage >= 70 && m.GPUUsage < 95 &&
				m.CPUUsage >= 40 && m.CPUUsage < 60 &&
				m.MemoryUsage >= 60 && m.MemoryUsage < 90
		},
		gen.IntRange(0, 500),
		gen.IntRange(0, 100),
	))

	properties.Property("accuracy never exceeds its ceiling", prop.ForAll(
		func(epoch int) bool {
			return GenerateMetric(1, epoch, 0, 1).Accuracy <= 95
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestGenerateMetricShape(t *testing.T) {
	m := GenerateMetric(42, 3, 7, 10)

	assert.Equal(t, int64(42), m.TrainingID)
	assert.Equal(t, 3, m.Epoch)
	assert.Equal(t, 7, m.BatchesProcessed)
	assert.Equal(t, 10, m.TotalBatches)
	assert.NotZero(t, m.Timestamp)
}

func TestGenerateMetricLossDecays(t *testing.T) {
	// Averaged over many samples the noise washes out and the exponential
	// decay dominates.
	var early, late float64
	for i := 0; i < 200; i++ {
		early += GenerateMetric(1, 0, 0, 1).Loss
		late += GenerateMetric(1, 40, 0, 1).Loss
	}
	assert.Greater(t, early/200, late/200)
}
