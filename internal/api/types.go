package api

import (
	"time"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// ReleaseDateLayout formats app release dates, always in UTC.
const ReleaseDateLayout = "2006-01-02 15:04:05MST"

type envelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Errors ValidationErrors `json:"errors"`
}

// SDK is the wire form of an SDK.
type SDK struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// App is the wire form of an app.
type App struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	CompanyURL       string  `json:"company_url"`
	ReleaseDate      *string `json:"release_date"`
	GenreID          int64   `json:"genre_id"`
	ArtworkLargeURL  string  `json:"artwork_large_url"`
	SellerName       string  `json:"seller_name"`
	FiveStarRatings  int64   `json:"five_star_ratings"`
	FourStarRatings  int64   `json:"four_star_ratings"`
	ThreeStarRatings int64   `json:"three_star_ratings"`
	TwoStarRatings   int64   `json:"two_star_ratings"`
	OneStarRatings   int64   `json:"one_star_ratings"`
}

// SDKsResponse is the data of GET /sdks.
type SDKsResponse struct {
	SDKs []SDK `json:"sdks"`
}

// NumbersResponse is the data of GET /sdk-compmatrix/numbers.
type NumbersResponse struct {
	Numbers [][]int64 `json:"numbers"`
}

// AppsResponse is the data of GET /sdk-compmatrix/apps.
type AppsResponse struct {
	Apps        []App   `json:"apps"`
	TotalCount  int64   `json:"total_count"`
	StartCursor *string `json:"start_cursor"`
	EndCursor   *string `json:"end_cursor"`
}

// NewSDK converts a catalog SDK to its wire form.
func NewSDK(s core.SDK) SDK {
	return SDK{ID: s.ID, Name: s.Name, Slug: s.Slug, URL: s.URL, Description: s.Description}
}

func newApp(a core.App) App {
	return App{
		ID:               a.ID,
		Name:             a.Name,
		CompanyURL:       a.CompanyURL,
		ReleaseDate:      formatReleaseDate(a.ReleaseDate),
		GenreID:          a.GenreID,
		ArtworkLargeURL:  a.ArtworkLargeURL,
		SellerName:       a.SellerName,
		FiveStarRatings:  a.FiveStarRatings,
		FourStarRatings:  a.FourStarRatings,
		ThreeStarRatings: a.ThreeStarRatings,
		TwoStarRatings:   a.TwoStarRatings,
		OneStarRatings:   a.OneStarRatings,
	}
}

// NewAppsResponse converts an app page to its wire form.
func NewAppsResponse(page core.AppPage) AppsResponse {
	resp := AppsResponse{
		Apps:        make([]App, len(page.Apps)),
		TotalCount:  page.TotalCount,
		StartCursor: formatCursor(page.StartCursor),
		EndCursor:   formatCursor(page.EndCursor),
	}
	for i, a := range page.Apps {
		resp.Apps[i] = newApp(a)
	}
	return resp
}

func formatReleaseDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(ReleaseDateLayout)
	return &s
}

func formatCursor(c *core.Cursor) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}
