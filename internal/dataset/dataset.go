// Package dataset reads catalog files: YAML documents listing SDKs and
// apps, where each app names the SDKs it has installed or dropped.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/leapstack-labs/compmatrix/pkg/core"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// File is the on-disk shape of a dataset.
type File struct {
	SDKs []SDK `yaml:"sdks"`
	Apps []App `yaml:"apps"`
}

// SDK is one SDK entry.
type SDK struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// App is one app entry.
type App struct {
	ID              int64      `yaml:"id"`
	Name            string     `yaml:"name"`
	SellerName      string     `yaml:"seller_name"`
	CompanyURL      string     `yaml:"company_url"`
	ReleaseDate     *time.Time `yaml:"release_date"`
	GenreID         int64      `yaml:"genre_id"`
	ArtworkLargeURL string     `yaml:"artwork_large_url"`
	Ratings         Ratings    `yaml:"ratings"`
	SDKs            AppSDKs    `yaml:"sdks"`
}

// Ratings holds the per-star rating counts.
type Ratings struct {
	Five  int64 `yaml:"five"`
	Four  int64 `yaml:"four"`
	Three int64 `yaml:"three"`
	Two   int64 `yaml:"two"`
	One   int64 `yaml:"one"`
}

// AppSDKs lists SDK slugs by current state.
type AppSDKs struct {
	Installed   []string `yaml:"installed"`
	Uninstalled []string `yaml:"uninstalled"`
}

// ErrInvalid wraps every semantic problem found in a dataset.
var ErrInvalid = errors.New("invalid dataset")

// Sample returns the embedded sample catalog.
func Sample() core.Catalog {
	c, err := Load(bytes.NewReader(sampleYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded sample dataset: %v", err))
	}
	return c
}

// LoadFile reads a dataset from path.
func LoadFile(path string) (core.Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's config
	if err != nil {
		return core.Catalog{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Load(f)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes and validates a dataset.
func Load(r io.Reader) (core.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return core.Catalog{}, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return f.Catalog()
}

// Catalog converts the file into catalog rows, resolving SDK slugs.
func (f File) Catalog() (core.Catalog, error) {
	var c core.Catalog

	slugs := make(map[string]int64, len(f.SDKs))
	sdkIDs := make(map[int64]bool, len(f.SDKs))
	for _, s := range f.SDKs {
		if s.ID <= 0 {
			return core.Catalog{}, fmt.Errorf("%w: sdk %q has no positive id", ErrInvalid, s.Name)
		}
		if sdkIDs[s.ID] {
			return core.Catalog{}, fmt.Errorf("%w: duplicate sdk id %d", ErrInvalid, s.ID)
		}
		if _, dup := slugs[s.Slug]; dup || s.Slug == "" {
			return core.Catalog{}, fmt.Errorf("%w: sdk %d has an empty or duplicate slug %q", ErrInvalid, s.ID, s.Slug)
		}
		sdkIDs[s.ID] = true
		slugs[s.Slug] = s.ID
		c.SDKs = append(c.SDKs, core.SDK{
			ID:          s.ID,
			Name:        s.Name,
			Slug:        s.Slug,
			URL:         s.URL,
			Description: s.Description,
		})
	}

	appIDs := make(map[int64]bool, len(f.Apps))
	for _, a := range f.Apps {
		if a.ID <= 0 {
			return core.Catalog{}, fmt.Errorf("%w: app %q has no positive id", ErrInvalid, a.Name)
		}
		if appIDs[a.ID] {
			return core.Catalog{}, fmt.Errorf("%w: duplicate app id %d", ErrInvalid, a.ID)
		}
		appIDs[a.ID] = true

		c.Apps = append(c.Apps, core.App{
			ID:               a.ID,
			Name:             a.Name,
			CompanyURL:       a.CompanyURL,
			ReleaseDate:      a.ReleaseDate,
			GenreID:          a.GenreID,
			ArtworkLargeURL:  a.ArtworkLargeURL,
			SellerName:       a.SellerName,
			FiveStarRatings:  a.Ratings.Five,
			FourStarRatings:  a.Ratings.Four,
			ThreeStarRatings: a.Ratings.Three,
			TwoStarRatings:   a.Ratings.Two,
			OneStarRatings:   a.Ratings.One,
		})

		seen := make(map[string]bool)
		add := func(slug string, installed bool) error {
			id, ok := slugs[slug]
			if !ok {
				return fmt.Errorf("%w: app %d refers to unknown sdk %q", ErrInvalid, a.ID, slug)
			}
			if seen[slug] {
				return fmt.Errorf("%w: app %d lists sdk %q more than once", ErrInvalid, a.ID, slug)
			}
			seen[slug] = true
			c.Associations = append(c.Associations, core.Association{AppID: a.ID, SDKID: id, Installed: installed})
			return nil
		}
		for _, slug := range a.SDKs.Installed {
			if err := add(slug, true); err != nil {
				return core.Catalog{}, err
			}
		}
		for _, slug := range a.SDKs.Uninstalled {
			if err := add(slug, false); err != nil {
				return core.Catalog{}, err
			}
		}
	}

	return c, nil
}
