package server

import (
	"net/http"

	"github.com/matzehuels/cypherview/pkg/buildinfo"
	"github.com/matzehuels/cypherview/pkg/concentrate"
	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/group"
	"github.com/matzehuels/cypherview/pkg/observability"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

// ConcentrateRequest is the body of POST /api/v1/concentrate.
type ConcentrateRequest struct {
	Document *document.Document `json:"document"`
	Options  pipeline.Options   `json:"options"`
}

// ConcentrateResponse is the reply of POST /api/v1/concentrate.
type ConcentrateResponse struct {
	Document *document.Document     `json:"document"`
	Pairs    []concentrate.PairStats `json:"pairs,omitempty"`
	Stats    pipeline.Stats          `json:"stats"`
	CacheHit bool                    `json:"cache_hit"`
}

// GroupsRequest is the body of POST /api/v1/groups.
type GroupsRequest struct {
	Document      *document.Document `json:"document"`
	GroupProperty string             `json:"group_property,omitempty"`
}

// GroupsResponse is the reply of POST /api/v1/groups.
type GroupsResponse struct {
	GroupProperty string        `json:"group_property"`
	Groups        []group.Group `json:"groups"`
}

// FetchRequest is the body of POST /api/v1/fetch. When Options is set the
// fetched document is concentrated before it is returned.
type FetchRequest struct {
	Query   string            `json:"query,omitempty"`
	Params  map[string]any    `json:"params,omitempty"`
	Refresh bool              `json:"refresh,omitempty"`
	Options *pipeline.Options `json:"options,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) concentrate(w http.ResponseWriter, r *http.Request) {
	var req ConcentrateRequest
	if err := decodeJSON(w, r, &req, s.cfg.MaxBodyBytes); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Document == nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "missing document"))
		return
	}
	s.execute(w, r, req.Document, req.Options)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, doc *document.Document, opts pipeline.Options) {
	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ConcentrateResponse{
		Document: res.Document,
		Pairs:    res.Pairs,
		Stats:    res.Stats,
		CacheHit: res.CacheHit,
	})
}

func (s *Server) groups(w http.ResponseWriter, r *http.Request) {
	var req GroupsRequest
	if err := decodeJSON(w, r, &req, s.cfg.MaxBodyBytes); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Document == nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "missing document"))
		return
	}
	if req.GroupProperty == "" {
		req.GroupProperty = pipeline.DefaultGroupProperty
	}
	if err := errors.ValidatePropertyName(req.GroupProperty); err != nil {
		s.fail(w, r, err)
		return
	}

	g, err := req.Document.ToGraph()
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "build graph"))
		return
	}
	respondJSON(w, http.StatusOK, GroupsResponse{
		GroupProperty: req.GroupProperty,
		Groups:        group.Count(g, req.GroupProperty),
	})
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := decodeJSON(w, r, &req, s.cfg.MaxBodyBytes); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Query == "" {
		req.Query = s.cfg.Query
	}

	doc, _, err := s.runner.Fetch(r.Context(), s.cfg.Fetcher, pipeline.FetchOptions{
		Database: s.cfg.Database,
		Query:    req.Query,
		Params:   req.Params,
		Refresh:  req.Refresh,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Options == nil {
		respondJSON(w, http.StatusOK, doc)
		return
	}
	s.execute(w, r, doc, *req.Options)
}

// fail writes err as a JSON error. Server-side failures are logged and
// their details withheld from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	respondError(w, status, string(code), msg)
}
