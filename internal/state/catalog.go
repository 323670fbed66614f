package state

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// ListSDKs returns all SDKs ordered by id.
func (s *Store) ListSDKs(ctx context.Context) ([]core.SDK, error) {
	if s.db() == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db().QueryContext(ctx,
		`SELECT id, name, slug, url, description FROM sdk ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sdks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sdks []core.SDK
	for rows.Next() {
		var sdk core.SDK
		if err := rows.Scan(&sdk.ID, &sdk.Name, &sdk.Slug, &sdk.URL, &sdk.Description); err != nil {
			return nil, fmt.Errorf("failed to scan sdk: %w", err)
		}
		sdks = append(sdks, sdk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sdks: %w", err)
	}

	return sdks, nil
}

// UnknownSDKIDs returns the ids in ids that do not refer to an SDK.
// The result keeps the input order and holds each unknown id once.
func (s *Store) UnknownSDKIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if s.db() == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := s.dialect.Rebind(`SELECT id FROM sdk WHERE id IN (` + placeholders(len(ids)) + `)`)

	known, err := queryIDs(ctx, s.db(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sdk ids: %w", err)
	}

	var unknown []int64
	for _, id := range ids {
		if !slices.Contains(known, id) && !slices.Contains(unknown, id) {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

// CountApps returns the number of apps in the catalog.
func (s *Store) CountApps(ctx context.Context) (int64, error) {
	if s.db() == nil {
		return 0, fmt.Errorf("database not opened")
	}

	var n int64
	if err := s.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM app`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count apps: %w", err)
	}
	return n, nil
}

// ReplaceCatalog deletes every app, SDK and association and inserts c in
// their place, all in one transaction.
func (s *Store) ReplaceCatalog(ctx context.Context, c core.Catalog) (err error) {
	if s.db() == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"app_sdk", "app", "sdk"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // fixed table names
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = s.insertSDKs(ctx, tx, c.SDKs); err != nil {
		return err
	}
	if err = s.insertApps(ctx, tx, c.Apps); err != nil {
		return err
	}
	if err = s.insertAssociations(ctx, tx, c.Associations); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}

	s.logger.Debug("catalog replaced",
		"apps", len(c.Apps), "sdks", len(c.SDKs), "associations", len(c.Associations))
	return nil
}

func (s *Store) insertSDKs(ctx context.Context, tx *sql.Tx, sdks []core.SDK) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(
		`INSERT INTO sdk (id, name, slug, url, description) VALUES (?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare sdk insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sdk := range sdks {
		if _, err := stmt.ExecContext(ctx, sdk.ID, sdk.Name, sdk.Slug, sdk.URL, sdk.Description); err != nil {
			return fmt.Errorf("failed to insert sdk %d: %w", sdk.ID, err)
		}
	}
	return nil
}

func (s *Store) insertApps(ctx context.Context, tx *sql.Tx, apps []core.App) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(
		`INSERT INTO app (id, name, company_url, release_date, genre_id, artwork_large_url, seller_name,
			five_star_ratings, four_star_ratings, three_star_ratings, two_star_ratings, one_star_ratings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare app insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, app := range apps {
		var released sql.NullTime
		if app.ReleaseDate != nil {
			released = sql.NullTime{Time: app.ReleaseDate.UTC(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			app.ID, app.Name, app.CompanyURL, released, app.GenreID, app.ArtworkLargeURL, app.SellerName,
			app.FiveStarRatings, app.FourStarRatings, app.ThreeStarRatings, app.TwoStarRatings, app.OneStarRatings,
		); err != nil {
			return fmt.Errorf("failed to insert app %d: %w", app.ID, err)
		}
	}
	return nil
}

func (s *Store) insertAssociations(ctx context.Context, tx *sql.Tx, assocs []core.Association) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(
		`INSERT INTO app_sdk (app_id, sdk_id, installed) VALUES (?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare association insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range assocs {
		if _, err := stmt.ExecContext(ctx, a.AppID, a.SDKID, a.Installed); err != nil {
			return fmt.Errorf("failed to insert association (%d, %d): %w", a.AppID, a.SDKID, err)
		}
	}
	return nil
}

func queryIDs(ctx context.Context, db *sql.DB, query string, args ...any) ([]int64, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// placeholders returns n comma-separated ? placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
