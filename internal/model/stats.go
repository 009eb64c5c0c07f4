package model

import "time"

// PortalStats is the government portal's headline view: raw counts plus an
// AI-derived health tracking percentage (falls back to a fixed default when
// the AI upstream is unavailable).
type PortalStats struct {
	TotalWorkers   int64 `json:"total_workers"`
	TotalRecords   int64 `json:"total_records"`
	TotalDocuments int64 `json:"total_documents"`
	HealthTracking int   `json:"health_tracking"`
}

// DistrictStats is one row of the derived per-district aggregate maintained by
// the sync worker. Recomputed idempotently on every record.created event.
type DistrictStats struct {
	District         string    `db:"district" json:"district"`
	TotalWorkers     int64     `db:"total_workers" json:"total_workers"`
	TotalRecords     int64     `db:"total_records" json:"total_records"`
	GovernmentVisits int64     `db:"government_visits" json:"government_visits"`
	PrivateVisits    int64     `db:"private_visits" json:"private_visits"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
