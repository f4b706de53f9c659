package collector

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/wafreport/wafreport/internal/models"
	"github.com/wafreport/wafreport/internal/period"
)

// All statements are read-only against the WAF product's schema.
// Exclusion lists arrive as array parameters: COALESCE(NOT (x = ANY($n)), TRUE)
// is a no-op for empty arrays and keeps NULL columns, so the SQL text
// never changes shape at runtime.

const summaryQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN mss."type" = 'website-req' THEN mss.value END)::bigint, 0) AS total_requests,
		COALESCE(SUM(CASE WHEN mss."type" = 'website-denied' THEN mss.value END)::bigint, 0) AS total_denied,
		(
			SELECT COUNT(*)
			FROM mgt_rule_detect_log_basic mrdlb
			WHERE mrdlb.attack_type = -3
			  AND mrdlb."timestamp" BETWEEN $1 AND $2
			  AND COALESCE(NOT (mrdlb.site_uuid = ANY($5)), TRUE)
		) AS blacklist_denied,
		(
			SELECT COUNT(*)
			FROM mgt_detect_log_basic mdlb
			WHERE mdlb."action" = 0
			  AND mdlb."timestamp" BETWEEN $1 AND $2
			  AND COALESCE(NOT (mdlb.site_uuid = ANY($5)), TRUE)
		) AS uncaught
	FROM mgt_system_statistics mss
	WHERE mss.created_at BETWEEN $3 AND $4
	  AND COALESCE(NOT (mss.website = ANY($5)), TRUE)
`

// FetchSummary retrieves the window-wide protection totals.
func (c *PostgresClient) FetchSummary(ctx context.Context, p period.Period) (models.Summary, error) {
	var summary models.Summary

	args := []interface{}{
		p.StartUnix(), p.EndUnix(),
		p.StartDate(), p.EndDate(),
		pq.Array(c.config.ExcludeAppIDs),
	}
	err := c.query(ctx, summaryQuery, args, func(rows *sql.Rows) error {
		summary = models.Summary{}
		if !rows.Next() {
			return nil
		}
		return rows.Scan(
			&summary.TotalRequests,
			&summary.TotalDenied,
			&summary.BlacklistDenied,
			&summary.Uncaught,
		)
	})
	return summary, err
}

const applicationsQuery = `
	SELECT
		mw.id,
		COALESCE(mw."comment", '') AS name,
		COALESCE(mw.server_names::text, '') AS domains,
		COALESCE(mw.ports::text, '') AS ports,
		COALESCE(SUM(CASE WHEN mss."type" = 'website-req' THEN mss.value END)::bigint, 0) AS requests,
		COALESCE(SUM(CASE WHEN mss."type" = 'website-denied' THEN mss.value END)::bigint, 0) AS denied
	FROM mgt_website mw
	LEFT JOIN mgt_system_statistics mss ON mw.id = mss.website::bigint
		AND mss.created_at BETWEEN $1 AND $2
	WHERE COALESCE(NOT (mw.id::text = ANY($3)), TRUE)
	GROUP BY mw.id, mw."comment", mw.server_names, mw.ports
	ORDER BY mw.id
`

// FetchApplications retrieves per-application usage for the window.
func (c *PostgresClient) FetchApplications(ctx context.Context, p period.Period) ([]models.Application, error) {
	var apps []models.Application

	args := []interface{}{p.StartDate(), p.EndDate(), pq.Array(c.config.ExcludeAppIDs)}
	err := c.query(ctx, applicationsQuery, args, func(rows *sql.Rows) error {
		apps = nil
		for rows.Next() {
			var app models.Application
			if err := rows.Scan(&app.ID, &app.Name, &app.Domains, &app.Ports, &app.Requests, &app.Denied); err != nil {
				return err
			}
			apps = append(apps, app)
		}
		return nil
	})
	return apps, err
}

const geoTopQuery = `
	SELECT
		country,
		COALESCE(province, '') AS province,
		COALESCE(city, '') AS city,
		SUM(count)::bigint AS requests
	FROM statistics_geos
	WHERE "time" BETWEEN $1 AND $2
	GROUP BY country, province, city
	ORDER BY requests DESC
	LIMIT 10
`

// FetchGeoTop retrieves the ten busiest geographic origins.
func (c *PostgresClient) FetchGeoTop(ctx context.Context, p period.Period) ([]models.GeoAccess, error) {
	var entries []models.GeoAccess

	args := []interface{}{p.StartUnix(), p.EndUnix()}
	err := c.query(ctx, geoTopQuery, args, func(rows *sql.Rows) error {
		entries = nil
		for rows.Next() {
			var geo models.GeoAccess
			if err := rows.Scan(&geo.Country, &geo.Province, &geo.City, &geo.Requests); err != nil {
				return err
			}
			entries = append(entries, geo)
		}
		return nil
	})
	return entries, err
}

const sourceTopQuery = `
	SELECT
		si."key" AS ip,
		SUM(si.count)::bigint AS requests
	FROM statistics_ips si
	WHERE si."time" BETWEEN $1 AND $2
	  AND si.attack_type = -1
	  AND COALESCE(NOT (si."key" = ANY($3)), TRUE)
	GROUP BY si."key"
	ORDER BY requests DESC
	LIMIT 10
`

// FetchSourceTop retrieves the ten busiest client IPs.
func (c *PostgresClient) FetchSourceTop(ctx context.Context, p period.Period) ([]models.SourceAccess, error) {
	var entries []models.SourceAccess

	args := []interface{}{p.StartUnix(), p.EndUnix(), pq.Array(c.config.ExcludeIPs)}
	err := c.query(ctx, sourceTopQuery, args, func(rows *sql.Rows) error {
		entries = nil
		for rows.Next() {
			var src models.SourceAccess
			if err := rows.Scan(&src.IP, &src.Requests); err != nil {
				return err
			}
			entries = append(entries, src)
		}
		return nil
	})
	return entries, err
}

const attackTypesQuery = `
	SELECT
		si.attack_type,
		SUM(si.count)::bigint AS attacks
	FROM statistics_ips si
	WHERE si."time" BETWEEN $1 AND $2
	  AND si.attack_type > 0
	  AND COALESCE(NOT (si."key" = ANY($3)), TRUE)
	GROUP BY si.attack_type
	ORDER BY attacks DESC
`

// FetchAttackTypes retrieves attack volume grouped by attack type, most
// frequent first. Type codes are resolved to names by the caller.
func (c *PostgresClient) FetchAttackTypes(ctx context.Context, p period.Period) ([]models.AttackTypeCount, error) {
	var entries []models.AttackTypeCount

	args := []interface{}{p.StartUnix(), p.EndUnix(), pq.Array(c.config.ExcludeIPs)}
	err := c.query(ctx, attackTypesQuery, args, func(rows *sql.Rows) error {
		entries = nil
		for rows.Next() {
			var at models.AttackTypeCount
			if err := rows.Scan(&at.Code, &at.Count); err != nil {
				return err
			}
			entries = append(entries, at)
		}
		return nil
	})
	return entries, err
}

const attackerTopQuery = `
	SELECT
		si."key" AS ip,
		si.attack_type,
		SUM(si.count)::bigint AS attacks
	FROM statistics_ips si
	WHERE si."time" BETWEEN $1 AND $2
	  AND si.attack_type > 0
	  AND COALESCE(NOT (si."key" = ANY($3)), TRUE)
	GROUP BY si."key", si.attack_type
	ORDER BY attacks DESC
	LIMIT 10
`

// FetchAttackerTop retrieves the ten most active attacking IPs.
func (c *PostgresClient) FetchAttackerTop(ctx context.Context, p period.Period) ([]models.AttackerAccess, error) {
	var entries []models.AttackerAccess

	args := []interface{}{p.StartUnix(), p.EndUnix(), pq.Array(c.config.ExcludeIPs)}
	err := c.query(ctx, attackerTopQuery, args, func(rows *sql.Rows) error {
		entries = nil
		for rows.Next() {
			var atk models.AttackerAccess
			if err := rows.Scan(&atk.IP, &atk.TypeCode, &atk.Count); err != nil {
				return err
			}
			entries = append(entries, atk)
		}
		return nil
	})
	return entries, err
}

const uncaughtQuery = `
	SELECT
		COALESCE(mw."comment", '') AS application,
		mdlb.src_ip,
		COALESCE(mdlb.host, '') AS host,
		COALESCE(mdlb.url_path, '') AS path,
		COALESCE(mdlb.dst_port, 0) AS port,
		COALESCE(mdlb.country, '') AS country,
		COALESCE(mdlb.province, '') AS province,
		COALESCE(mdlb.city, '') AS city,
		mdlb.attack_type,
		mdlb.updated_at
	FROM mgt_detect_log_basic mdlb
	JOIN mgt_website mw ON mdlb.site_uuid::bigint = mw.id
	WHERE mdlb."timestamp" BETWEEN $1 AND $2
	  AND mdlb."action" = 0
	  AND COALESCE(NOT (mdlb.site_uuid = ANY($3)), TRUE)
	ORDER BY mdlb.updated_at
`

// FetchUncaught retrieves the detail rows for attacks the WAF observed
// but did not block.
func (c *PostgresClient) FetchUncaught(ctx context.Context, p period.Period) ([]models.UncaughtAttack, error) {
	var entries []models.UncaughtAttack

	args := []interface{}{p.StartUnix(), p.EndUnix(), pq.Array(c.config.ExcludeAppIDs)}
	err := c.query(ctx, uncaughtQuery, args, func(rows *sql.Rows) error {
		entries = nil
		for rows.Next() {
			var ua models.UncaughtAttack
			if err := rows.Scan(
				&ua.Application, &ua.SourceIP, &ua.Host, &ua.Path, &ua.Port,
				&ua.Country, &ua.Province, &ua.City, &ua.TypeCode, &ua.OccurredAt,
			); err != nil {
				return err
			}
			entries = append(entries, ua)
		}
		return nil
	})
	return entries, err
}
