package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// schemaSQL is compiled into the binary at build time so schema init works
// inside the runtime image without shipping the .sql file alongside it.
//
//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for Sentinel Engine")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping is the liveness check surfaced by the health endpoint.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InitSchema executes the embedded schema.sql DDL statements.
func (s *PostgresStore) InitSchema() error {
	_, err := s.pool.Exec(context.Background(), schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Sentinel Engine schema initialized")
	return nil
}

// ─── Articles ────────────────────────────────────────────────────────

// InsertArticle writes an article with set-on-insert semantics: an
// existing row for the same url is never overwritten. Returns true when
// a new row was actually inserted.
func (s *PostgresStore) InsertArticle(ctx context.Context, a models.Article) (bool, error) {
	sql := `
		INSERT INTO articles
			(url, title, content, source, author, tags, scraped_at, published_at,
			 fingerprint, veracity_score, source_count, conflict_type, confidence,
			 verification_needed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (url) DO NOTHING;
	`
	ct, err := s.pool.Exec(ctx, sql,
		a.URL, a.Title, a.Content, a.Source, a.Author, a.Tags,
		a.ScrapedAt, a.PublishedAt, a.Fingerprint, a.VeracityScore,
		a.SourceCount, a.Features.ConflictType, a.Features.Confidence,
		a.Features.VerificationNeeded,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %v", err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateArticleCategory attaches a conflict category and its confidence
// to an already-ingested article.
func (s *PostgresStore) UpdateArticleCategory(ctx context.Context, url, category string, confidence float64) error {
	sql := `
		UPDATE articles
		SET conflict_type = $2, confidence = $3, categorized_at = NOW()
		WHERE url = $1;
	`
	ct, err := s.pool.Exec(ctx, sql, url, category, confidence)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("article not found: %s", url)
	}
	return nil
}

// GetUncategorizedArticles returns articles still carrying the Unknown
// conflict type. These form the categorization queue.
func (s *PostgresStore) GetUncategorizedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sql := `
		SELECT url, title, content, source, conflict_type, confidence,
		       fingerprint, veracity_score, source_count, scraped_at
		FROM articles
		WHERE conflict_type = 'Unknown'
		ORDER BY scraped_at ASC
		LIMIT $1;
	`
	return s.scanArticles(ctx, sql, limit)
}

// GetUnparsedArticles returns articles whose url does not yet appear as
// source_url of any parsed event. This is the extraction queue; restart
// re-discovers in-flight work through the same predicate.
func (s *PostgresStore) GetUnparsedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	sql := `
		SELECT a.url, a.title, a.content, a.source, a.conflict_type, a.confidence,
		       a.fingerprint, a.veracity_score, a.source_count, a.scraped_at
		FROM articles a
		LEFT JOIN parsed_events e ON e.source_url = a.url
		WHERE e.id IS NULL
		ORDER BY a.scraped_at ASC
		LIMIT $1;
	`
	return s.scanArticles(ctx, sql, limit)
}

func (s *PostgresStore) scanArticles(ctx context.Context, sql string, args ...any) ([]models.Article, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]models.Article, 0)
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.URL, &a.Title, &a.Content, &a.Source,
			&a.Features.ConflictType, &a.Features.Confidence,
			&a.Fingerprint, &a.VeracityScore, &a.SourceCount, &a.ScrapedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountArticles backs the ingestion-volume stat.
func (s *PostgresStore) CountArticles(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

// ─── Parsed events ───────────────────────────────────────────────────

// InsertParsedEvent appends an event. The unique index on source_url
// makes re-processing the same article a no-op rather than a duplicate.
func (s *PostgresStore) InsertParsedEvent(ctx context.Context, e models.ParsedEvent) (bool, error) {
	sql := `
		INSERT INTO parsed_events
			(event_type, state, lga, severity, source_title, source_url,
			 latitude, longitude, sentiment_intensity, hate_speech_indicators,
			 conflict_driver, parsed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (source_url) DO NOTHING;
	`
	ct, err := s.pool.Exec(ctx, sql,
		e.EventType, e.State, e.LGA, e.Severity, e.SourceTitle, e.SourceURL,
		e.Latitude, e.Longitude, e.SentimentIntensity, e.HateSpeechIndicators,
		e.ConflictDriver, e.ParsedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert parsed event: %v", err)
	}
	return ct.RowsAffected() > 0, nil
}

// GetUnscoredEvents returns parsed events with no risk signal yet.
func (s *PostgresStore) GetUnscoredEvents(ctx context.Context, limit int) ([]models.ParsedEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	sql := `
		SELECT e.event_type, e.state, e.lga, e.severity, e.source_title, e.source_url,
		       e.latitude, e.longitude, e.sentiment_intensity, e.hate_speech_indicators,
		       e.conflict_driver, e.parsed_at
		FROM parsed_events e
		LEFT JOIN risk_signals r ON r.source_url = e.source_url
		WHERE r.source_url IS NULL
		ORDER BY e.parsed_at ASC
		LIMIT $1;
	`
	return s.scanEvents(ctx, sql, limit)
}

// GetAllEvents returns every parsed event, newest first. The simulator
// re-scores this full set against the slider inputs.
func (s *PostgresStore) GetAllEvents(ctx context.Context) ([]models.ParsedEvent, error) {
	sql := `
		SELECT event_type, state, lga, severity, source_title, source_url,
		       latitude, longitude, sentiment_intensity, hate_speech_indicators,
		       conflict_driver, parsed_at
		FROM parsed_events
		ORDER BY parsed_at DESC;
	`
	return s.scanEvents(ctx, sql)
}

func (s *PostgresStore) scanEvents(ctx context.Context, sql string, args ...any) ([]models.ParsedEvent, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.ParsedEvent, 0)
	for rows.Next() {
		var e models.ParsedEvent
		if err := rows.Scan(&e.EventType, &e.State, &e.LGA, &e.Severity,
			&e.SourceTitle, &e.SourceURL, &e.Latitude, &e.Longitude,
			&e.SentimentIntensity, &e.HateSpeechIndicators,
			&e.ConflictDriver, &e.ParsedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountParsedEvents backs the intelligence-depth stat.
func (s *PostgresStore) CountParsedEvents(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM parsed_events`).Scan(&n)
	return n, err
}

// ─── Risk signals ────────────────────────────────────────────────────

// UpsertRiskSignal persists a signal keyed by source_url. Re-scoring the
// same event replaces the previous row so at most one signal exists per
// source article at any time.
func (s *PostgresStore) UpsertRiskSignal(ctx context.Context, sig models.RiskSignal) error {
	sql := `
		INSERT INTO risk_signals
			(source_url, event_type, state, lga, severity, fuel_price, inflation,
			 risk_score, risk_level, source_title, trigger_reason,
			 flood_inundation_index, precipitation_anomaly, vegetation_health_index,
			 mining_proximity_km, mining_site_name, high_funding_potential,
			 informal_taxation_rate, border_activity, lakurawa_presence,
			 border_permeability_score, group_affiliation, sophisticated_ied_usage,
			 climate_vulnerability, mining_density, migration_pressure, poverty_rate,
			 high_escalation_potential, is_farmer_herder_conflict,
			 surge_detected, surge_percentage_increase,
			 climate_zone_region, climate_recession_index, climate_impact_zone,
			 climate_conflict_correlation, conflict_driver, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		        $29, $30, $31, $32, $33, $34, $35, $36, $37)
		ON CONFLICT (source_url) DO UPDATE SET
			event_type = EXCLUDED.event_type,
			state = EXCLUDED.state,
			lga = EXCLUDED.lga,
			severity = EXCLUDED.severity,
			fuel_price = EXCLUDED.fuel_price,
			inflation = EXCLUDED.inflation,
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			source_title = EXCLUDED.source_title,
			trigger_reason = EXCLUDED.trigger_reason,
			flood_inundation_index = EXCLUDED.flood_inundation_index,
			precipitation_anomaly = EXCLUDED.precipitation_anomaly,
			vegetation_health_index = EXCLUDED.vegetation_health_index,
			mining_proximity_km = EXCLUDED.mining_proximity_km,
			mining_site_name = EXCLUDED.mining_site_name,
			high_funding_potential = EXCLUDED.high_funding_potential,
			informal_taxation_rate = EXCLUDED.informal_taxation_rate,
			border_activity = EXCLUDED.border_activity,
			lakurawa_presence = EXCLUDED.lakurawa_presence,
			border_permeability_score = EXCLUDED.border_permeability_score,
			group_affiliation = EXCLUDED.group_affiliation,
			sophisticated_ied_usage = EXCLUDED.sophisticated_ied_usage,
			climate_vulnerability = EXCLUDED.climate_vulnerability,
			mining_density = EXCLUDED.mining_density,
			migration_pressure = EXCLUDED.migration_pressure,
			poverty_rate = EXCLUDED.poverty_rate,
			high_escalation_potential = EXCLUDED.high_escalation_potential,
			is_farmer_herder_conflict = EXCLUDED.is_farmer_herder_conflict,
			surge_detected = EXCLUDED.surge_detected,
			surge_percentage_increase = EXCLUDED.surge_percentage_increase,
			climate_zone_region = EXCLUDED.climate_zone_region,
			climate_recession_index = EXCLUDED.climate_recession_index,
			climate_impact_zone = EXCLUDED.climate_impact_zone,
			climate_conflict_correlation = EXCLUDED.climate_conflict_correlation,
			conflict_driver = EXCLUDED.conflict_driver,
			calculated_at = EXCLUDED.calculated_at;
	`
	_, err := s.pool.Exec(ctx, sql,
		sig.SourceURL, sig.EventType, sig.State, sig.LGA, sig.Severity,
		sig.FuelPrice, sig.Inflation, sig.RiskScore, sig.RiskLevel,
		sig.SourceTitle, sig.TriggerReason,
		sig.FloodInundationIndex, sig.PrecipitationAnomaly, sig.VegetationHealthIndex,
		sig.MiningProximityKM, sig.MiningSiteName, sig.HighFundingPotential,
		sig.InformalTaxationRate, sig.BorderActivity, sig.LakurawaPresence,
		sig.BorderPermeabilityScore, sig.GroupAffiliation, sig.SophisticatedIEDUsage,
		sig.ClimateVulnerability, sig.MiningDensity, sig.MigrationPressure,
		sig.PovertyRate, sig.HighEscalationPotential, sig.IsFarmerHerderConflict,
		sig.SurgeDetected, sig.SurgePercentageIncrease,
		sig.ClimateZoneRegion, sig.ClimateRecessionIndex, sig.ClimateImpactZone,
		sig.ClimateConflictCorrelation, sig.ConflictDriver, sig.CalculatedAt,
	)
	return err
}

// GetRecentSignals returns the last N signals by calculated_at descending.
func (s *PostgresStore) GetRecentSignals(ctx context.Context, limit int) ([]models.RiskSignal, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	sql := `
		SELECT source_url, event_type, state, lga, severity, fuel_price, inflation,
		       risk_score, risk_level, COALESCE(source_title, ''), trigger_reason,
		       flood_inundation_index, mining_proximity_km, COALESCE(mining_site_name, ''),
		       high_funding_potential, COALESCE(border_activity, ''), lakurawa_presence,
		       climate_vulnerability, mining_density, migration_pressure,
		       high_escalation_potential, is_farmer_herder_conflict,
		       surge_detected, surge_percentage_increase,
		       COALESCE(climate_zone_region, ''), COALESCE(climate_impact_zone, ''),
		       COALESCE(conflict_driver, ''), calculated_at
		FROM risk_signals
		ORDER BY calculated_at DESC
		LIMIT $1;
	`
	rows, err := s.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signals := make([]models.RiskSignal, 0)
	for rows.Next() {
		var sig models.RiskSignal
		if err := rows.Scan(&sig.SourceURL, &sig.EventType, &sig.State, &sig.LGA,
			&sig.Severity, &sig.FuelPrice, &sig.Inflation, &sig.RiskScore,
			&sig.RiskLevel, &sig.SourceTitle, &sig.TriggerReason,
			&sig.FloodInundationIndex, &sig.MiningProximityKM, &sig.MiningSiteName,
			&sig.HighFundingPotential, &sig.BorderActivity, &sig.LakurawaPresence,
			&sig.ClimateVulnerability, &sig.MiningDensity, &sig.MigrationPressure,
			&sig.HighEscalationPotential, &sig.IsFarmerHerderConflict,
			&sig.SurgeDetected, &sig.SurgePercentageIncrease,
			&sig.ClimateZoneRegion, &sig.ClimateImpactZone,
			&sig.ConflictDriver, &sig.CalculatedAt); err != nil {
			return nil, err
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// CountRiskSignals backs the intelligence-depth stat.
func (s *PostgresStore) CountRiskSignals(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM risk_signals`).Scan(&n)
	return n, err
}

// ─── Categorization audit ────────────────────────────────────────────

type CategoryStat struct {
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

type ConfidenceLogEntry struct {
	URL           string    `json:"url"`
	Category      string    `json:"category"`
	Confidence    float64   `json:"confidence"`
	CategorizedAt time.Time `json:"categorized_at"`
}

type CategorizationAudit struct {
	TotalArticles     int                     `json:"total_articles"`
	ProcessedArticles int                     `json:"processed_articles"`
	RemainingArticles int                     `json:"remaining_articles"`
	Categories        map[string]CategoryStat `json:"categories"`
	ConfidenceLogs    []ConfidenceLogEntry    `json:"confidence_logs"`
}

// GetCategorizationAudit aggregates the categorization backlog and the
// per-category confidence picture, plus the ten most recent decisions.
func (s *PostgresStore) GetCategorizationAudit(ctx context.Context) (CategorizationAudit, error) {
	audit := CategorizationAudit{Categories: make(map[string]CategoryStat)}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE conflict_type <> 'Unknown')
		FROM articles;
	`).Scan(&audit.TotalArticles, &audit.ProcessedArticles)
	if err != nil {
		return audit, err
	}
	audit.RemainingArticles = audit.TotalArticles - audit.ProcessedArticles

	rows, err := s.pool.Query(ctx, `
		SELECT conflict_type, COUNT(*), AVG(confidence)
		FROM articles
		WHERE conflict_type <> 'Unknown'
		GROUP BY conflict_type;
	`)
	if err != nil {
		return audit, err
	}
	for rows.Next() {
		var name string
		var stat CategoryStat
		if err := rows.Scan(&name, &stat.Count, &stat.AvgConfidence); err != nil {
			rows.Close()
			return audit, err
		}
		audit.Categories[name] = stat
	}
	rows.Close()
	if rows.Err() != nil {
		return audit, rows.Err()
	}

	logRows, err := s.pool.Query(ctx, `
		SELECT url, conflict_type, confidence, categorized_at
		FROM articles
		WHERE categorized_at IS NOT NULL
		ORDER BY categorized_at DESC
		LIMIT 10;
	`)
	if err != nil {
		return audit, err
	}
	defer logRows.Close()

	audit.ConfidenceLogs = make([]ConfidenceLogEntry, 0, 10)
	for logRows.Next() {
		var entry ConfidenceLogEntry
		if err := logRows.Scan(&entry.URL, &entry.Category, &entry.Confidence, &entry.CategorizedAt); err != nil {
			return audit, err
		}
		audit.ConfidenceLogs = append(audit.ConfidenceLogs, entry)
	}
	return audit, logRows.Err()
}

// ─── Economic data ───────────────────────────────────────────────────

// BulkLoadEconomicData replaces the economic reference table in a single
// transaction. Runs once at startup from the CSV snapshot.
func (s *PostgresStore) BulkLoadEconomicData(ctx context.Context, rows []models.EconomicRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE economic_data`); err != nil {
		return fmt.Errorf("failed to truncate economic_data: %v", err)
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO economic_data (state, lga, fuel_price, inflation)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (state, lga) DO UPDATE
			SET fuel_price = EXCLUDED.fuel_price, inflation = EXCLUDED.inflation;
		`, row.State, row.LGA, row.FuelPrice, row.Inflation)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to load economic rows: %v", err)
	}
	return tx.Commit(ctx)
}

// GetEconomicData returns the full economic table for the in-memory
// lookup snapshot.
func (s *PostgresStore) GetEconomicData(ctx context.Context) ([]models.EconomicRow, error) {
	rows, err := s.pool.Query(ctx, `SELECT state, lga, fuel_price, inflation FROM economic_data`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.EconomicRow, 0)
	for rows.Next() {
		var row models.EconomicRow
		if err := rows.Scan(&row.State, &row.LGA, &row.FuelPrice, &row.Inflation); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
