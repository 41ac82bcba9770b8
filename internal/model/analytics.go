package model

import "time"

// BucketKind discriminates profile-view buckets from link-click buckets.
type BucketKind string

const (
	KindProfileView BucketKind = "view"
	KindLinkClick   BucketKind = "click"
)

// Device classes emitted by the visitor classifier.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// Visitor is one recorded visit, owned by exactly one bucket and immutable
// once written.
type Visitor struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Device    string    `json:"device"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

// Bucket aggregates one calendar day of views or clicks for one subject.
// At most one bucket exists per (user, link-or-none, kind, day). The visitor
// list holds at most one entry per IP within any rolling 24h lookback from
// write time; totals count every hit regardless of uniqueness.
type Bucket struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	LinkID      *int64     `json:"link_id,omitempty"`
	Kind        BucketKind `json:"kind"`
	Day         time.Time  `json:"day"`
	TotalViews  int64      `json:"total_views"`
	TotalClicks int64      `json:"total_clicks"`
	Visitors    []Visitor  `json:"visitors"`
}

// NewDeviceStats returns a distribution with every device class present,
// so empty intervals still serialize all four keys.
func NewDeviceStats() map[string]int64 {
	return map[string]int64{
		DeviceMobile:  0,
		DeviceTablet:  0,
		DeviceDesktop: 0,
		DeviceUnknown: 0,
	}
}

// TimeSeriesPoint is one day of the aggregate time series.
type TimeSeriesPoint struct {
	Date           string `json:"date"`
	Views          int64  `json:"views"`
	Clicks         int64  `json:"clicks"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// LinkTimeSeriesPoint is one day of a single link's time series.
type LinkTimeSeriesPoint struct {
	Date         string `json:"date"`
	Clicks       int64  `json:"clicks"`
	UniqueClicks int    `json:"uniqueClicks"`
}

// LinkPerformance is one row of the per-link leaderboard.
type LinkPerformance struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Clicks       int64  `json:"clicks"`
	UniqueClicks int    `json:"uniqueClicks"`
}

// AnalyticsReport is the folded answer for a whole profile over an interval.
type AnalyticsReport struct {
	TotalProfileViews int64              `json:"totalProfileViews"`
	TotalLinkClicks   int64              `json:"totalLinkClicks"`
	UniqueVisitors    int                `json:"uniqueVisitors"`
	DeviceStats       map[string]int64   `json:"deviceStats"`
	CountryStats      map[string]int64   `json:"countryStats"`
	ReferrerStats     map[string]int64   `json:"referrerStats"`
	TimeSeries        []TimeSeriesPoint  `json:"timeSeries"`
	LinkPerformance   []LinkPerformance  `json:"linkPerformance"`
}

// LinkReport is the folded answer for a single link over an interval.
type LinkReport struct {
	TotalClicks   int64                 `json:"totalClicks"`
	UniqueClicks  int                   `json:"uniqueClicks"`
	DeviceStats   map[string]int64      `json:"deviceStats"`
	CountryStats  map[string]int64      `json:"countryStats"`
	ReferrerStats map[string]int64      `json:"referrerStats"`
	TimeSeries    []LinkTimeSeriesPoint `json:"timeSeries"`
}
