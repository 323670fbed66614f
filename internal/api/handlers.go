// Package api serves the competitive matrix over HTTP.
package api

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// Catalog is the part of the store the API reads directly.
type Catalog interface {
	ListSDKs(ctx context.Context) ([]core.SDK, error)
	UnknownSDKIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// Matrices computes matrices and the app pages behind their cells.
type Matrices interface {
	ComputeMatrix(ctx context.Context, sources, destinations []int64) (core.Matrix, error)
	ListCellApps(ctx context.Context, req core.CellRequest) (core.AppPage, error)
}

// Handlers provides the HTTP handlers of the API.
type Handlers struct {
	catalog  Catalog
	matrices Matrices
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog Catalog, matrices Matrices, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		catalog:  catalog,
		matrices: matrices,
		logger:   logger,
	}
}

// SDKs lists every SDK, ordered case-insensitively by name.
func (h *Handlers) SDKs(w http.ResponseWriter, r *http.Request) {
	sdks, err := h.catalog.ListSDKs(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	SortSDKs(sdks)

	resp := SDKsResponse{SDKs: make([]SDK, len(sdks))}
	for i, s := range sdks {
		resp.SDKs[i] = NewSDK(s)
	}
	h.writeData(w, resp)
}

// Numbers returns the count matrix for the requested SDK lists.
func (h *Handlers) Numbers(w http.ResponseWriter, r *http.Request) {
	q, c := parseNumbersQuery(parseParams(r.URL.RawQuery))
	if !h.validate(w, r, c) {
		return
	}

	m, err := h.matrices.ComputeMatrix(r.Context(), q.sources, q.destinations)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.writeData(w, NumbersResponse{Numbers: m.Numbers})
}

// Apps returns one page of the apps behind a matrix cell.
func (h *Handlers) Apps(w http.ResponseWriter, r *http.Request) {
	req, c := parseAppsQuery(parseParams(r.URL.RawQuery))
	if !h.validate(w, r, c) {
		return
	}

	page, err := h.matrices.ListCellApps(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.writeData(w, NewAppsResponse(page))
}

// SortSDKs orders sdks case-insensitively by name, then by id.
func SortSDKs(sdks []core.SDK) {
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(sdks, func(a, b core.SDK) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// validate writes a 422 response and reports false when the request has
// problems. Ids that parsed are looked up even when other problems exist.
func (h *Handlers) validate(w http.ResponseWriter, r *http.Request, c *checker) bool {
	errs := c.errors()

	unknown, err := h.unknownIDs(r.Context(), c.ids)
	if err != nil {
		h.internalError(w, r, err)
		return false
	}
	if unknown != nil {
		errs = append(errs, *unknown)
	}

	if len(errs) == 0 {
		return true
	}
	h.logger.Debug("rejected request", "path", r.URL.Path, "problems", len(errs))
	h.writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Errors: errs})
	return false
}

func (h *Handlers) unknownIDs(ctx context.Context, ids []idParam) (*Error, error) {
	var names []string
	var diagnostics map[string]any
	numUnknown := 0

	for _, p := range ids {
		unknown, err := h.catalog.UnknownSDKIDs(ctx, p.ids)
		if err != nil {
			return nil, err
		}
		if len(unknown) == 0 {
			continue
		}
		if diagnostics == nil {
			diagnostics = map[string]any{}
		}
		names = append(names, p.name)
		numUnknown += len(unknown)
		if p.list {
			diagnostics[p.name] = unknown
		} else {
			diagnostics[p.name] = unknown[0]
		}
	}

	if len(names) == 0 {
		return nil, nil
	}
	return &Error{
		Message:     unknownIDsMessage(names, numUnknown),
		Code:        CodeUnknownID,
		Parameters:  names,
		Diagnostics: diagnostics,
	}, nil
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, errorEnvelope{Errors: ValidationErrors{{
		Message:    "The server failed to process the request.",
		Code:       CodeInternal,
		Parameters: []string{},
	}}})
}

func (h *Handlers) writeData(w http.ResponseWriter, data any) {
	h.writeJSON(w, http.StatusOK, envelope{Data: data})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
