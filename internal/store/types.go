package store

import (
	"time"

	"amp-monitor-backend/internal/model"
)

// ReadingFilter narrows a reading query. Zero-valued fields apply no filter;
// Since is an inclusive lower bound on created_at.
type ReadingFilter struct {
	ProductID string
	Username  string
	Sensor    string
	Since     time.Time
}

// UserStats summarizes all readings for one user.
type UserStats struct {
	TotalReadings int64 `json:"totalReadings"`
	HighAmpCount  int64 `json:"highAmpCount"`
	LowAmpCount   int64 `json:"lowAmpCount"`
	Percentage    int   `json:"percentage"`
}

// ReadingSummary is the compact projection of a reading.
type ReadingSummary struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amper     float64   `json:"amper"`
}

// UserGroup is a per-username aggregate within a filtered reading set.
type UserGroup struct {
	Username      string          `json:"username"`
	TotalReadings int64           `json:"totalReadings"`
	LatestReading *ReadingSummary `json:"latestReading"`
	AverageAmper  float64         `json:"averageAmper"`
}

// BandCounts are the four fixed amperage categories. They partition [0,100]:
// off is exactly 0, low is (0,0.5), mid is [0.5,1.0), high is >= 1.0.
type BandCounts struct {
	Off  int64 `json:"off"`
	Low  int64 `json:"low"`
	Mid  int64 `json:"mid"`
	High int64 `json:"high"`
}

// Statistics holds min/max/avg and band counts over a filtered reading set.
type Statistics struct {
	TotalReadings int64      `json:"totalReadings"`
	MinAmper      float64    `json:"minAmper"`
	MaxAmper      float64    `json:"maxAmper"`
	AvgAmper      float64    `json:"avgAmper"`
	Categories    BandCounts `json:"categories"`
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ProductSummary is a product joined with its derived reading count.
type ProductSummary struct {
	model.Product
	TotalReadings int64 `json:"totalReadings"`
}
