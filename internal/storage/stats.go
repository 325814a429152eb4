package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// dayFormat is the key format for the daily_visits table.
const dayFormat = "2006-01-02"

// Visit is a single recorded request.
type Visit struct {
	Endpoint   string
	ClientIP   string
	UserAgent  string
	Skill      string  // empty when no skill was involved
	Confidence float64 // intent confidence, meaningful only with Skill
	At         time.Time
}

// Stats is an aggregated snapshot of the visit counters. The field
// names mirror the public /api/stats document.
type Stats struct {
	TotalVisits          int64              `json:"total_visits"`
	UniqueVisitors       int64              `json:"unique_visitors"`
	TodayVisits          int64              `json:"today_visits"`
	YesterdayVisits      int64              `json:"yesterday_visits"`
	WeekVisits           int64              `json:"week_visits"`
	MostActiveHour       string             `json:"most_active_hour"`
	MostPopularEndpoint  string             `json:"most_popular_endpoint"`
	MostUsedSkill        string             `json:"most_used_skill"`
	EndpointStats        map[string]int64   `json:"endpoint_stats"`
	SkillUsage           map[string]int64   `json:"skill_usage"`
	IntentAccuracy       map[string]float64 `json:"intent_accuracy"`
	DailyVisitsLast7Days map[string]int64   `json:"daily_visits_last_7_days"`
	HourlyDistribution   map[string]int64   `json:"hourly_distribution"`
	TopUserAgents        map[string]int64   `json:"top_user_agents"`
	LastUpdated          string             `json:"last_updated"`
}

// StatsRepository persists visit counters.
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a repository over an open database.
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// RecordVisit upserts all counters touched by one request.
// A zero v.At means now.
func (r *StatsRepository) RecordVisit(ctx context.Context, v Visit) error {
	if v.Endpoint == "" {
		return errors.New("visit endpoint is required")
	}
	at := v.At
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin visit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	steps := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO daily_visits (day, count) VALUES (?, 1)
			 ON CONFLICT(day) DO UPDATE SET count = count + 1`,
			[]any{at.Format(dayFormat)},
		},
		{
			`INSERT INTO hourly_visits (hour, count) VALUES (?, 1)
			 ON CONFLICT(hour) DO UPDATE SET count = count + 1`,
			[]any{at.Hour()},
		},
		{
			`INSERT INTO endpoint_visits (endpoint, count) VALUES (?, 1)
			 ON CONFLICT(endpoint) DO UPDATE SET count = count + 1`,
			[]any{v.Endpoint},
		},
	}
	if v.ClientIP != "" {
		steps = append(steps, struct {
			query string
			args  []any
		}{
			`INSERT INTO visitors (client_ip, last_seen) VALUES (?, ?)
			 ON CONFLICT(client_ip) DO UPDATE SET last_seen = excluded.last_seen`,
			[]any{v.ClientIP, at.Unix()},
		})
	}
	if v.UserAgent != "" {
		steps = append(steps, struct {
			query string
			args  []any
		}{
			`INSERT INTO user_agents (agent, count) VALUES (?, 1)
			 ON CONFLICT(agent) DO UPDATE SET count = count + 1`,
			[]any{v.UserAgent},
		})
	}
	if v.Skill != "" {
		steps = append(steps, struct {
			query string
			args  []any
		}{
			`INSERT INTO skill_usage (skill, count, last_confidence) VALUES (?, 1, ?)
			 ON CONFLICT(skill) DO UPDATE SET count = count + 1, last_confidence = excluded.last_confidence`,
			[]any{v.Skill, v.Confidence},
		})
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
			return fmt.Errorf("failed to record visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit: %w", err)
	}
	return nil
}

// Stats aggregates a snapshot of all counters as of now.
func (r *StatsRepository) Stats(ctx context.Context) (*Stats, error) {
	return r.statsAt(ctx, time.Now())
}

func (r *StatsRepository) statsAt(ctx context.Context, now time.Time) (*Stats, error) {
	s := &Stats{
		EndpointStats:        make(map[string]int64),
		SkillUsage:           make(map[string]int64),
		IntentAccuracy:       make(map[string]float64),
		DailyVisitsLast7Days: make(map[string]int64),
		HourlyDistribution:   make(map[string]int64),
		TopUserAgents:        make(map[string]int64),
		LastUpdated:          now.Format(time.RFC3339),
	}

	conn := r.db.conn

	if err := conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM endpoint_visits`).Scan(&s.TotalVisits); err != nil {
		return nil, fmt.Errorf("failed to sum total visits: %w", err)
	}
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM visitors`).Scan(&s.UniqueVisitors); err != nil {
		return nil, fmt.Errorf("failed to count visitors: %w", err)
	}

	today := now.Format(dayFormat)
	yesterday := now.AddDate(0, 0, -1).Format(dayFormat)
	// Week starts on Monday
	weekStart := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7)).Format(dayFormat)

	if err := r.scanCount(ctx, `SELECT COALESCE(SUM(count), 0) FROM daily_visits WHERE day = ?`, &s.TodayVisits, today); err != nil {
		return nil, err
	}
	if err := r.scanCount(ctx, `SELECT COALESCE(SUM(count), 0) FROM daily_visits WHERE day = ?`, &s.YesterdayVisits, yesterday); err != nil {
		return nil, err
	}
	if err := r.scanCount(ctx, `SELECT COALESCE(SUM(count), 0) FROM daily_visits WHERE day >= ?`, &s.WeekVisits, weekStart); err != nil {
		return nil, err
	}

	var activeHour sql.NullInt64
	if err := conn.QueryRowContext(ctx,
		`SELECT hour FROM hourly_visits ORDER BY count DESC, hour ASC LIMIT 1`).Scan(&activeHour); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to find most active hour: %w", err)
	}
	if activeHour.Valid {
		s.MostActiveHour = fmt.Sprintf("%d:00-%d:00", activeHour.Int64, activeHour.Int64+1)
	}

	if err := r.collectCounts(ctx,
		`SELECT endpoint, count FROM endpoint_visits`, s.EndpointStats); err != nil {
		return nil, err
	}
	if err := r.collectCounts(ctx,
		`SELECT hour, count FROM hourly_visits`, s.HourlyDistribution); err != nil {
		return nil, err
	}
	if err := r.collectCounts(ctx,
		`SELECT day, count FROM daily_visits ORDER BY day DESC LIMIT 7`, s.DailyVisitsLast7Days); err != nil {
		return nil, err
	}
	if err := r.collectCounts(ctx,
		`SELECT agent, count FROM user_agents ORDER BY count DESC LIMIT 5`, s.TopUserAgents); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `SELECT skill, count, last_confidence FROM skill_usage`)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill usage: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var skill string
		var count int64
		var confidence float64
		if err := rows.Scan(&skill, &count, &confidence); err != nil {
			return nil, fmt.Errorf("failed to scan skill usage: %w", err)
		}
		s.SkillUsage[skill] = count
		s.IntentAccuracy[skill] = confidence
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skill usage: %w", err)
	}

	s.MostPopularEndpoint = maxKey(s.EndpointStats)
	s.MostUsedSkill = maxKey(s.SkillUsage)

	return s, nil
}

// Cleanup drops daily rows older than the retention window and visitors
// not seen within it. Endpoint/skill/hour counters are lifetime totals
// and are kept.
func (r *StatsRepository) Cleanup(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	if _, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM daily_visits WHERE day < ?`, cutoff.Format(dayFormat)); err != nil {
		return fmt.Errorf("failed to clean daily visits: %w", err)
	}
	if _, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM visitors WHERE last_seen < ?`, cutoff.Unix()); err != nil {
		return fmt.Errorf("failed to clean visitors: %w", err)
	}
	return nil
}

func (r *StatsRepository) scanCount(ctx context.Context, query string, dst *int64, args ...any) error {
	if err := r.db.conn.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
		return fmt.Errorf("failed to scan count: %w", err)
	}
	return nil
}

func (r *StatsRepository) collectCounts(ctx context.Context, query string, dst map[string]int64) error {
	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan counts: %w", err)
		}
		dst[key] = count
	}
	return rows.Err()
}

func maxKey(counts map[string]int64) string {
	var best string
	var bestCount int64 = -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}
