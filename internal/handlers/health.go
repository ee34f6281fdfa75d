package handlers

import (
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	started time.Time
	version string
	logger  *zap.Logger

	procOnce sync.Once
	proc     *process.Process
	procErr  error
}

// NewHealthChecker creates a new health checker. Uptime is measured from started.
func NewHealthChecker(started time.Time, version string, logger *zap.Logger) *HealthChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthChecker{started: started, version: version, logger: logger}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string      `json:"status"`
	Timestamp string      `json:"timestamp"`
	Uptime    float64     `json:"uptime"`
	Memory    MemoryStats `json:"memory"`
	Version   string      `json:"version"`
}

// MemoryStats is a snapshot of process memory in bytes
type MemoryStats struct {
	RSS       uint64 `json:"rss"`
	HeapTotal uint64 `json:"heapTotal"`
	HeapUsed  uint64 `json:"heapUsed"`
	Sys       uint64 `json:"sys"`
}

// HealthCheck handles the /health endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: now(),
		Uptime:    time.Since(h.started).Seconds(),
		Memory:    h.memory(),
		Version:   h.version,
	}, h.logger)
}

func (h *HealthChecker) memory() MemoryStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := MemoryStats{
		HeapTotal: ms.HeapSys,
		HeapUsed:  ms.HeapAlloc,
		Sys:       ms.Sys,
	}

	h.procOnce.Do(func() {
		h.proc, h.procErr = process.NewProcess(int32(os.Getpid()))
	})
	if h.procErr != nil {
		h.logger.Warn("failed_to_open_process_handle", zap.Error(h.procErr))
		return stats
	}
	info, err := h.proc.MemoryInfo()
	if err != nil {
		h.logger.Warn("failed_to_read_process_memory", zap.Error(err))
		return stats
	}
	stats.RSS = info.RSS
	return stats
}
