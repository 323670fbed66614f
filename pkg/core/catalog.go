package core

import "time"

// App is a mobile app tracked by the catalog.
type App struct {
	ID               int64
	Name             string
	CompanyURL       string
	ReleaseDate      *time.Time
	GenreID          int64
	ArtworkLargeURL  string
	SellerName       string
	FiveStarRatings  int64
	FourStarRatings  int64
	ThreeStarRatings int64
	TwoStarRatings   int64
	OneStarRatings   int64
}

// Cursor returns the pagination cursor pointing at this app.
func (a App) Cursor() Cursor {
	return Cursor{Name: a.Name, SellerName: a.SellerName}
}

// SDK is a third-party SDK that apps may install.
type SDK struct {
	ID          int64
	Name        string
	Slug        string
	URL         string
	Description string
}

// Association records that an app has had an SDK at some point.
// Installed is true when the SDK is part of the app's current SDK set,
// and false when the app used to have it but dropped it.
type Association struct {
	AppID     int64
	SDKID     int64
	Installed bool
}

// Catalog is a complete set of apps, SDKs and their associations.
type Catalog struct {
	Apps         []App
	SDKs         []SDK
	Associations []Association
}
