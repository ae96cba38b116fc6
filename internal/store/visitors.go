package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked page view. HashedIP is already salted and hashed
// by the caller.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionView records that a session settled on a section.
type SectionView struct {
	SessionID string    `json:"session_id"`
	SectionID string    `json:"section_id"`
	Progress  float64   `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionStat aggregates views of one section.
type SectionStat struct {
	SectionID   string  `json:"section_id"`
	Views       int64   `json:"views"`
	Sessions    int64   `json:"sessions"`
	AvgProgress float64 `json:"avg_progress"`
}

// Stats is what the admin dashboard shows.
type Stats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TotalSessions    int64         `json:"total_sessions"`
	TotalViews       int64         `json:"total_section_views"`
	TopSections      []SectionStat `json:"top_sections"`
	RecentVisitors   []Visit       `json:"recent_visitors"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordSectionView stores a section change for a tracking session.
func (s *Store) RecordSectionView(ctx context.Context, v SectionView) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO section_views (session_id, section_id, progress, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.SessionID, v.SectionID, v.Progress, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("recording section view: %w", err)
	}
	return nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = parseTime(ts)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// SectionStats ranks sections by how often sessions settled on them.
func (s *Store) SectionStats(ctx context.Context, limit int) ([]SectionStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section_id, COUNT(*), COUNT(DISTINCT session_id), COALESCE(AVG(progress), 0)
		FROM section_views
		GROUP BY section_id
		ORDER BY COUNT(*) DESC, section_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying section stats: %w", err)
	}
	defer rows.Close()

	var stats []SectionStat
	for rows.Next() {
		var st SectionStat
		if err := rows.Scan(&st.SectionID, &st.Views, &st.Sessions, &st.AvgProgress); err != nil {
			return nil, fmt.Errorf("scanning section stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Stats gathers dashboard numbers relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	startOfDay := now.UTC().Truncate(24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(startOfDay)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(weekAgo)}},
		{&stats.TotalSessions, `SELECT COUNT(DISTINCT session_id) FROM section_views`, nil},
		{&stats.TotalViews, `SELECT COUNT(*) FROM section_views`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	var err error
	if stats.TopSections, err = s.SectionStats(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// Cleanup deletes visitor and section records older than before and
// returns how many rows went.
func (s *Store) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"visitors", "section_views"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timestamp < ?`, formatTime(before))
		if err != nil {
			return total, fmt.Errorf("cleaning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
