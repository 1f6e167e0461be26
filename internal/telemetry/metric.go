package telemetry

import (
	"math"
	"math/rand"
	"time"
)

// Metric is one simulated training sample. Immutable once produced; owned by
// the session that generated it.
type Metric struct {
	TrainingID       int64   `json:"trainingId"`
	Epoch            int     `json:"epoch"`
	Loss             float64 `json:"loss"`
	Accuracy         float64 `json:"accuracy"`
	GPUUsage         float64 `json:"gpuUsage"`
	CPUUsage         float64 `json:"cpuUsage"`
	MemoryUsage      float64 `json:"memoryUsage"`
	BatchesProcessed int     `json:"batchesProcessed"`
	TotalBatches     int     `json:"totalBatches"`
	Timestamp        int64   `json:"timestamp"` // wall-clock milliseconds
}

// GenerateMetric produces one synthetic sample for the given position in a
// run. Loss decays exponentially with the epoch, accuracy grows linearly up
// to a ceiling, and resource usage is uniform within realistic bounds. Safe
// to call concurrently from multiple sessions.
func GenerateMetric(trainingID int64, epoch, batchesProcessed, totalBatches int) Metric {
	baseLoss := 2.0
	lossDecay := math.Exp(-float64(epoch) / 10)
	loss := baseLoss*lossDecay + rand.Float64()*0.1

	accuracy := math.Min(95, 50+float64(epoch)*4.5+rand.Float64()*5)

	return Metric{
		TrainingID:       trainingID,
		Epoch:            epoch,
		Loss:             math.Max(0.01, loss),
		Accuracy:         math.Min(100, accuracy),
		GPUUsage:         70 + rand.Float64()*25,
		CPUUsage:         40 + rand.Float64()*20,
		MemoryUsage:      60 + rand.Float64()*30,
		BatchesProcessed: batchesProcessed,
		TotalBatches:     totalBatches,
		Timestamp:        time.Now().UnixMilli(),
	}
}
