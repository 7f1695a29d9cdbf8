package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Zachkp/soc-portfolio/internal/view"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64            `json:"total_visitors"`
	UniqueVisitors   int64            `json:"unique_visitors"`
	VisitorsToday    int64            `json:"visitors_today"`
	VisitorsThisWeek int64            `json:"visitors_this_week"`
	ViewsOpened      int64            `json:"views_opened"`
	ScansCompleted   int64            `json:"scans_completed"`
	EventsByKind     map[string]int64 `json:"events_by_kind"`
	TabSelections    map[string]int64 `json:"tab_selections"`
	RecentVisitors   []Visit          `json:"recent_visitors"`
}

// Stats aggregates the dashboard numbers as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst *int64
		q   sq.SelectBuilder
	}{
		{&stats.TotalVisitors, sq.Select("COUNT(*)").From("visitors")},
		{&stats.UniqueVisitors, sq.Select("COUNT(DISTINCT hashed_ip)").From("visitors")},
		{&stats.VisitorsToday, sq.Select("COUNT(*)").From("visitors").
			Where(sq.GtOrEq{"at": startOfDay.UnixMilli()})},
		{&stats.VisitorsThisWeek, sq.Select("COUNT(*)").From("visitors").
			Where(sq.GtOrEq{"at": now.Add(-7 * 24 * time.Hour).UnixMilli()})},
	}
	for _, c := range counts {
		query, args, err := c.q.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build stats query: %w", err)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("query stats: %w", err)
		}
	}

	var err error
	if stats.EventsByKind, err = s.groupCount(ctx,
		sq.Select("kind", "COUNT(*)").From("view_events").GroupBy("kind")); err != nil {
		return nil, err
	}
	if stats.TabSelections, err = s.groupCount(ctx,
		sq.Select("detail", "COUNT(*)").From("view_events").
			Where(sq.Eq{"kind": string(view.EventTabSelected)}).GroupBy("detail")); err != nil {
		return nil, err
	}
	stats.ViewsOpened = stats.EventsByKind[string(view.EventOpened)]
	stats.ScansCompleted = stats.EventsByKind[string(view.EventScanCompleted)]

	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) groupCount(ctx context.Context, q sq.SelectBuilder) (map[string]int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query group counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		out[key] = n
	}
	return out, rows.Err()
}
