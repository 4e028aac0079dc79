package configs

import "time"

type AppConfigs struct {
	DefaultMessageLimit      int32 // per-call receive size when the caller doesn't ask for one
	DashboardMessageLimit    int   // total distinct messages one listing may return
	DashboardBatchCount      int   // max receive calls per listing
	PeekVisibilityTimeoutSec int32 // long enough that one listing never sees the same message twice
	MaxPreviewLength         int   // plain-text preview cutoff, bytes
	MaxSubjectPreviewLength  int   // subject preview cutoff, bytes
	MaxJsonKeysInPreview     int
	JobsIntervals            JobsIntervals
	ServerConfig             ServerConfig
}

type JobsIntervals struct {
	QueuesDepthMetricsMs int64 // interval for polling queue depths into gauges
}

type ServerConfig struct {
	Timeouts ServerTimeouts
}

type ServerTimeouts struct {
	Handle     time.Duration
	Write      time.Duration
	Read       time.Duration
	ReadHeader time.Duration
	Idle       time.Duration
}

func NewAppConfig() *AppConfigs {
	return &AppConfigs{
		DefaultMessageLimit:      10,
		DashboardMessageLimit:    50,
		DashboardBatchCount:      5, // 5 x 10 = up to 50 distinct messages
		PeekVisibilityTimeoutSec: 300,
		MaxPreviewLength:         200,
		MaxSubjectPreviewLength:  100,
		MaxJsonKeysInPreview:     5,
		JobsIntervals: JobsIntervals{
			QueuesDepthMetricsMs: 30 * 1000, // 30 seconds
		},
		ServerConfig: ServerConfig{
			Timeouts: ServerTimeouts{
				Handle:     30 * time.Second, // worst case: 5 sequential receive calls
				Write:      35 * time.Second,
				Read:       35 * time.Second,
				ReadHeader: 10 * time.Second,
				Idle:       5 * time.Minute,
			},
		},
	}
}
