package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats measures the time and memory taken by one stage of witness
// generation (e.g. reading the circuit, running the machines).
type PerfStats struct {
	stage string
	start time.Time
	// Total bytes allocated when the stage began
	alloc uint64
	// Number of GC cycles when the stage began
	gcs uint32
}

// NewPerfStats begins measuring a given stage.
func NewPerfStats(stage string) *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{stage, time.Now(), m.TotalAlloc, m.NumGC}
}

// Stage returns the name of the stage being measured.
func (p *PerfStats) Stage() string {
	return p.stage
}

// Elapsed returns the time since the stage began.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.start)
}

// Log reports (at debug level) what the stage has cost so far, along with any
// stage-specific fields.
func (p *PerfStats) Log(fields log.Fields) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	log.WithFields(fields).WithFields(log.Fields{
		"elapsed":  p.Elapsed().Round(time.Millisecond).String(),
		"alloc_mb": (m.TotalAlloc - p.alloc) / 1024 / 1024,
		"gcs":      m.NumGC - p.gcs,
		"heap_mb":  m.Alloc / 1024 / 1024,
	}).Debug(p.stage)
}
