package scheduler

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceUsage is one sample of observed system load, per the source's
// mock-sampled ResourceUsage struct (here backed by a real sampler).
type ResourceUsage struct {
	CPUPercent     float64
	MemoryPercent  float64
	MemoryMB       float64
	NetworkInKB    float64
	NetworkOutKB   float64
	Timestamp      time.Time
}

// ResourceSampler reports current system load. GopsutilSampler is the
// production implementation; tests substitute a fake.
type ResourceSampler interface {
	Sample(ctx context.Context) (ResourceUsage, error)
}

// GopsutilSampler samples real CPU and memory usage via gopsutil,
// replacing the source's rand-based placeholder ("Mock: 10-20%") flagged
// in Design Notes §9 as requiring a real implementation.
type GopsutilSampler struct{}

// Sample implements ResourceSampler.
func (GopsutilSampler) Sample(ctx context.Context) (ResourceUsage, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return ResourceUsage{}, err
	}
	cpuPercent := 0.0
	if len(percents) > 0 {
		cpuPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return ResourceUsage{}, err
	}

	return ResourceUsage{
		CPUPercent:    cpuPercent,
		MemoryPercent: vm.UsedPercent,
		MemoryMB:      float64(vm.Used) / (1024 * 1024),
		Timestamp:     time.Now(),
	}, nil
}
