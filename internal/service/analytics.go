package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
	"github.com/VyankateshKedar/sparkAppBackend/internal/visitor"
)

// BucketStore is the persistence surface the analytics engine works against.
type BucketStore interface {
	HasRecentVisitor(ctx context.Context, userID int64, linkID *int64, kind model.BucketKind, since time.Time, ip string) (bool, error)
	UpsertDailyBucket(ctx context.Context, userID int64, linkID *int64, kind model.BucketKind, day time.Time, visitor *model.Visitor) error
	LoadUserBuckets(ctx context.Context, userID int64, from, to time.Time) ([]model.Bucket, error)
	LoadLinkBuckets(ctx context.Context, userID, linkID int64, from, to time.Time) ([]model.Bucket, error)
}

// LinkReader is the subset of the link store the report builder needs.
type LinkReader interface {
	ListLinksByUser(ctx context.Context, userID int64, activeOnly bool) ([]model.Link, error)
	LinkBelongsToUser(ctx context.Context, id, userID int64) (bool, error)
}

const dedupWindow = 24 * time.Hour

type AnalyticsService struct {
	buckets    BucketStore
	links      LinkReader
	classifier *visitor.Classifier
	now        func() time.Time
}

func NewAnalyticsService(buckets BucketStore, links LinkReader, classifier *visitor.Classifier) *AnalyticsService {
	return &AnalyticsService{
		buckets:    buckets,
		links:      links,
		classifier: classifier,
		now:        time.Now,
	}
}

// RecordProfileView tracks one profile page view. It never returns an error:
// the page view that triggered it must succeed even when tracking fails.
func (s *AnalyticsService) RecordProfileView(ctx context.Context, userID int64, visit visitor.Visit) bool {
	return s.recordEvent(ctx, userID, nil, model.KindProfileView, visit)
}

// RecordLinkClick tracks one link click. Same failure semantics as
// RecordProfileView: failures are logged and swallowed.
func (s *AnalyticsService) RecordLinkClick(ctx context.Context, userID, linkID int64, visit visitor.Visit) bool {
	return s.recordEvent(ctx, userID, &linkID, model.KindLinkClick, visit)
}

// recordEvent applies the dedup rule and lands the hit in today's bucket.
// Counters always reflect calendar-day totals; uniqueness is judged against a
// rolling 24h lookback, so a repeat visit shortly after midnight still
// increments today's bucket without growing any visitor list. This asymmetry
// is deliberate.
func (s *AnalyticsService) recordEvent(ctx context.Context, userID int64, linkID *int64, kind model.BucketKind, visit visitor.Visit) bool {
	now := s.now()
	vis := s.classifier.Classify(visit, now)

	seen, err := s.buckets.HasRecentVisitor(ctx, userID, linkID, kind, now.Add(-dedupWindow), vis.IP)
	if err != nil {
		log.Printf("analytics dedup check failed: user=%d kind=%s err=%v", userID, kind, err)
		return false
	}

	var appended *model.Visitor
	if !seen {
		appended = &vis
	}

	if err := s.buckets.UpsertDailyBucket(ctx, userID, linkID, kind, midnight(now), appended); err != nil {
		log.Printf("analytics record failed: user=%d kind=%s err=%v", userID, kind, err)
		return false
	}

	return true
}

// UserReport folds every bucket for the user inside the range into totals,
// distributions, a daily time series and the per-link leaderboard.
func (s *AnalyticsService) UserReport(ctx context.Context, userID int64, rng DateRange) (*model.AnalyticsReport, error) {
	buckets, err := s.buckets.LoadUserBuckets(ctx, userID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	links, err := s.links.ListLinksByUser(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	linksByID := make(map[int64]model.Link, len(links))
	for _, l := range links {
		linksByID[l.ID] = l
	}

	report := &model.AnalyticsReport{
		DeviceStats:     model.NewDeviceStats(),
		CountryStats:    map[string]int64{},
		ReferrerStats:   map[string]int64{},
		TimeSeries:      []model.TimeSeriesPoint{},
		LinkPerformance: []model.LinkPerformance{},
	}

	uniqueIPs := map[string]struct{}{}

	type dayAccum struct {
		views  int64
		clicks int64
		ips    map[string]struct{}
	}
	days := map[string]*dayAccum{}

	type linkAccum struct {
		clicks int64
		ips    map[string]struct{}
	}
	perLink := map[int64]*linkAccum{}

	for _, b := range buckets {
		dateKey := b.Day.Format(dateLayout)
		day := days[dateKey]
		if day == nil {
			day = &dayAccum{ips: map[string]struct{}{}}
			days[dateKey] = day
		}

		switch b.Kind {
		case model.KindProfileView:
			report.TotalProfileViews += b.TotalViews
			day.views += b.TotalViews
		case model.KindLinkClick:
			report.TotalLinkClicks += b.TotalClicks
			day.clicks += b.TotalClicks

			if b.LinkID != nil {
				// Buckets pointing at a deleted link are skipped below;
				// accumulate per link regardless and filter at emit time.
				acc := perLink[*b.LinkID]
				if acc == nil {
					acc = &linkAccum{ips: map[string]struct{}{}}
					perLink[*b.LinkID] = acc
				}
				acc.clicks += b.TotalClicks
				for _, v := range b.Visitors {
					acc.ips[v.IP] = struct{}{}
				}
			}
		}

		for _, v := range b.Visitors {
			uniqueIPs[v.IP] = struct{}{}
			day.ips[v.IP] = struct{}{}
			report.DeviceStats[v.Device]++
			report.CountryStats[v.Country]++
			report.ReferrerStats[v.Referrer]++
		}
	}

	report.UniqueVisitors = len(uniqueIPs)

	for date, day := range days {
		report.TimeSeries = append(report.TimeSeries, model.TimeSeriesPoint{
			Date:           date,
			Views:          day.views,
			Clicks:         day.clicks,
			UniqueVisitors: len(day.ips),
		})
	}
	sort.Slice(report.TimeSeries, func(i, j int) bool {
		return report.TimeSeries[i].Date < report.TimeSeries[j].Date
	})

	for linkID, acc := range perLink {
		link, ok := linksByID[linkID]
		if !ok {
			continue // link deleted since the clicks were recorded
		}
		report.LinkPerformance = append(report.LinkPerformance, model.LinkPerformance{
			ID:           link.ID,
			Title:        link.Title,
			URL:          link.URL,
			Clicks:       acc.clicks,
			UniqueClicks: len(acc.ips),
		})
	}
	sort.SliceStable(report.LinkPerformance, func(i, j int) bool {
		return report.LinkPerformance[i].Clicks > report.LinkPerformance[j].Clicks
	})

	return report, nil
}

// LinkReport folds the click buckets of a single link. Ownership is checked
// first: a link that does not exist or belongs to someone else is NotFound,
// never another user's data.
func (s *AnalyticsService) LinkReport(ctx context.Context, userID, linkID int64, rng DateRange) (*model.LinkReport, error) {
	owned, err := s.links.LinkBelongsToUser(ctx, linkID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check link ownership: %w", err)
	}
	if !owned {
		return nil, repository.ErrLinkNotFound
	}

	buckets, err := s.buckets.LoadLinkBuckets(ctx, userID, linkID, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("failed to load link analytics: %w", err)
	}

	report := &model.LinkReport{
		DeviceStats:   model.NewDeviceStats(),
		CountryStats:  map[string]int64{},
		ReferrerStats: map[string]int64{},
		TimeSeries:    []model.LinkTimeSeriesPoint{},
	}

	uniqueIPs := map[string]struct{}{}

	type dayAccum struct {
		clicks int64
		ips    map[string]struct{}
	}
	days := map[string]*dayAccum{}

	for _, b := range buckets {
		report.TotalClicks += b.TotalClicks

		dateKey := b.Day.Format(dateLayout)
		day := days[dateKey]
		if day == nil {
			day = &dayAccum{ips: map[string]struct{}{}}
			days[dateKey] = day
		}
		day.clicks += b.TotalClicks

		for _, v := range b.Visitors {
			uniqueIPs[v.IP] = struct{}{}
			day.ips[v.IP] = struct{}{}
			report.DeviceStats[v.Device]++
			report.CountryStats[v.Country]++
			report.ReferrerStats[v.Referrer]++
		}
	}

	report.UniqueClicks = len(uniqueIPs)

	for date, day := range days {
		report.TimeSeries = append(report.TimeSeries, model.LinkTimeSeriesPoint{
			Date:         date,
			Clicks:       day.clicks,
			UniqueClicks: len(day.ips),
		})
	}
	sort.Slice(report.TimeSeries, func(i, j int) bool {
		return report.TimeSeries[i].Date < report.TimeSeries[j].Date
	})

	return report, nil
}
