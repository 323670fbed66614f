package compmatrix

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// ErrInvalidPage is returned for page requests the lister cannot serve.
var ErrInvalidPage = errors.New("invalid page request")

const appColumns = `app.id, app.name, app.company_url, app.release_date, app.genre_id,
	app.artwork_large_url, app.seller_name, app.five_star_ratings, app.four_star_ratings,
	app.three_star_ratings, app.two_star_ratings, app.one_star_ratings`

// ListCellApps returns one page of the apps in a matrix cell, ordered by
// (name, seller_name). The total count and the page are read in the same
// transaction.
func (e *Engine) ListCellApps(ctx context.Context, req core.CellRequest) (core.AppPage, error) {
	if err := checkPageRequest(req); err != nil {
		return core.AppPage{}, err
	}

	cell := BuildCellQuery(req.Source, req.Destination)
	pageQuery := buildPageQuery(cell, req)

	var page core.AppPage
	err := e.withReadTx(ctx, func(tx *sql.Tx) error {
		total, err := e.countCell(ctx, tx, cell)
		if err != nil {
			return err
		}
		page.TotalCount = total

		apps, err := e.fetchApps(ctx, tx, pageQuery)
		if err != nil {
			return err
		}
		page.Apps = apps
		return nil
	})
	if err != nil {
		return core.AppPage{}, err
	}

	// previous pages are scanned backwards
	if req.Direction == core.DirectionPrevious {
		slices.Reverse(page.Apps)
	}

	if len(page.Apps) > 0 {
		first := page.Apps[0].Cursor()
		last := page.Apps[len(page.Apps)-1].Cursor()
		page.StartCursor = &first
		page.EndCursor = &last
	}

	e.logger.Debug("listed cell apps",
		"source", req.Source.String(),
		"destination", req.Destination.String(),
		"page", len(page.Apps),
		"total", page.TotalCount)
	return page, nil
}

func checkPageRequest(req core.CellRequest) error {
	if req.Count < 1 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidPage, req.Count)
	}
	if (req.Cursor == nil) != (req.Direction == core.DirectionNone) {
		return fmt.Errorf("%w: cursor and direction must be given together", ErrInvalidPage)
	}
	switch req.Direction {
	case core.DirectionNone, core.DirectionNext, core.DirectionPrevious:
		return nil
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidPage, req.Direction)
	}
}

// buildPageQuery joins the cell's app ids to the app table and applies the
// keyset window.
func buildPageQuery(cell Query, req core.CellRequest) Query {
	var b queryBuilder
	b.write("SELECT " + appColumns + " FROM app JOIN ").
		embed(cell).
		write(" AS cell ON cell.app_id = app.id")

	order := "ASC"
	switch req.Direction {
	case core.DirectionNext:
		b.write(" WHERE (app.name, app.seller_name) > (?, ?)", req.Cursor.Name, req.Cursor.SellerName)
	case core.DirectionPrevious:
		b.write(" WHERE (app.name, app.seller_name) < (?, ?)", req.Cursor.Name, req.Cursor.SellerName)
		order = "DESC"
	}

	b.write(fmt.Sprintf(" ORDER BY app.name %[1]s, app.seller_name %[1]s, app.id %[1]s LIMIT ?", order), req.Count)
	return b.query()
}

func (e *Engine) fetchApps(ctx context.Context, tx *sql.Tx, q Query) ([]core.App, error) {
	rows, err := tx.QueryContext(ctx, e.dialect.Rebind(q.SQL), q.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cell apps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	apps := []core.App{}
	for rows.Next() {
		var app core.App
		var released sql.NullTime
		if err := rows.Scan(
			&app.ID, &app.Name, &app.CompanyURL, &released, &app.GenreID,
			&app.ArtworkLargeURL, &app.SellerName, &app.FiveStarRatings, &app.FourStarRatings,
			&app.ThreeStarRatings, &app.TwoStarRatings, &app.OneStarRatings,
		); err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		if released.Valid {
			t := released.Time.UTC()
			app.ReleaseDate = &t
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cell apps: %w", err)
	}
	return apps, nil
}
