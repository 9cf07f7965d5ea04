// Package view renders loaded objects as JSON:API documents over HTTP.
//
// A request is handled in four steps: the inclusion and fieldset query
// parameters are parsed, the primary data is loaded, the assembler builds the
// document, and the encoded body is written. With a document cache configured
// the last three steps are skipped for repeated requests.
package view

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/store"
	"github.com/conduit-lang/jsonapi-view/internal/web/cache"
	"github.com/conduit-lang/jsonapi-view/internal/web/middleware"
	"github.com/conduit-lang/jsonapi-view/internal/web/query"
	"github.com/conduit-lang/jsonapi-view/internal/web/response"
)

// LoadFunc loads the primary data of a request. A slice renders as a
// collection document, anything else as a single resource document.
type LoadFunc func(r *http.Request) (any, error)

// Handler turns LoadFuncs into http handlers
type Handler struct {
	assembler    *jsonapi.Assembler
	includeParam string
	documents    *cache.DocumentCache
	logger       *zap.Logger
}

// Option configures a Handler
type Option func(*Handler)

// WithIncludeParam sets the query parameter read for inclusion paths
func WithIncludeParam(param string) Option {
	return func(h *Handler) {
		if param != "" {
			h.includeParam = param
		}
	}
}

// WithDocumentCache serves repeated requests from documents
func WithDocumentCache(documents *cache.DocumentCache) Option {
	return func(h *Handler) {
		h.documents = documents
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a handler rendering through assembler
func NewHandler(assembler *jsonapi.Assembler, opts ...Option) *Handler {
	h := &Handler{
		assembler:    assembler,
		includeParam: query.DefaultIncludeParam,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render returns a handler answering with the document of load's result
func (h *Handler) Render(load LoadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFor(r.Context(), h.logger)

		scope := jsonapi.ParseIncludePaths(query.ParseInclude(r, h.includeParam))
		fieldsets := query.ParseFields(r)

		render := func() ([]byte, error) {
			data, err := load(r)
			if err != nil {
				return nil, err
			}
			return h.Document(data, scope, fieldsets)
		}

		var (
			body []byte
			hit  bool
			err  error
		)
		if h.documents != nil {
			key := cache.DocumentKey(r.URL.Path, scope, fieldsets)
			body, hit, err = h.documents.Fetch(r.Context(), key, render)
		} else {
			body, err = render()
		}

		if err != nil {
			h.renderError(w, logger, err)
			return
		}

		logger.Debug("document rendered",
			zap.Strings("include", scope.Paths()),
			zap.Bool("cache_hit", hit),
			zap.Int("bytes", len(body)),
		)

		if err := response.RenderRaw(w, http.StatusOK, body); err != nil {
			logger.Warn("failed to write document", zap.Error(err))
		}
	}
}

// Document assembles data into an encoded document with the fieldsets applied
func (h *Handler) Document(data any, scope jsonapi.IncludeScope, fieldsets map[string][]string) ([]byte, error) {
	doc, err := h.assembler.Assemble(data, scope)
	if err != nil {
		return nil, err
	}
	response.ApplySparseFieldsets(doc, fieldsets)
	return response.MarshalDocument(doc)
}

func (h *Handler) renderError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var httpErr *response.HTTPError
	switch {
	case errors.As(err, &httpErr):
		httpErr.Render(w)
	case store.IsNotFound(err):
		response.RenderNotFound(w, err.Error())
	case errors.Is(err, context.Canceled):
		logger.Debug("request canceled", zap.Error(err))
	default:
		if jsonapi.IsBuildError(err) {
			logger.Error("document build failed", zap.Error(err))
		} else {
			logger.Error("failed to load primary data", zap.Error(err))
		}
		response.RenderInternalError(w, err)
	}
}
