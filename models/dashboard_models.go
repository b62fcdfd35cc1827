package models

// StatusCounts holds per-status job counts as of a single dashboard call.
type StatusCounts struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Total      int64 `json:"total"`
}

type DashboardStats struct {
	Jobs               StatusCounts `json:"jobs"`
	Completed24h       int64        `json:"completed24h"`
	Failed24h          int64        `json:"failed24h"`
	SuccessRate24h     string       `json:"successRate24h"`
	TotalUSDCDisbursed float64      `json:"totalUSDCDisbursed"`
	Alerts             AlertStats   `json:"alerts"`
}

type Dashboard struct {
	Stats         DashboardStats    `json:"stats"`
	RecentJobs    []JobSummary      `json:"recentJobs"`
	StuckJobs     []DisbursementJob `json:"stuckJobs"`
	RetryableJobs []DisbursementJob `json:"retryableJobs"`
}
