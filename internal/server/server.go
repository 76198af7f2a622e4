// Package server exposes the editor session over HTTP for a browser client.
//
// The browser holds the visual canvas; this server is the authoritative
// graph. Every gesture arrives as a mutation request and is applied to the
// model before the response is written, so the client can re-render from
// the response without the two ever diverging. Wholesale replacement (PUT
// /flowsheet) goes through the load state machine: a malformed document is
// rejected without touching the live model.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flowvis/flowvis/pkg/model"
	"github.com/flowvis/flowvis/pkg/render/nodelink"
	"github.com/flowvis/flowvis/pkg/vis"
)

// Server serves one editor session.
type Server struct {
	session  *vis.Session
	loader   *vis.Loader
	logger   *log.Logger
	savePath string
}

// New creates a server around an editor session. savePath is where POST
// /save persists the flowsheet; empty disables the endpoint.
func New(session *vis.Session, logger *log.Logger, savePath string) *Server {
	return &Server{
		session:  session,
		loader:   vis.NewLoader(session),
		logger:   logger,
		savePath: savePath,
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Route("/flowsheet", func(r chi.Router) {
		r.Get("/", s.getFlowsheet)
		r.Put("/", s.putFlowsheet)

		r.Post("/nodes", s.postNode)
		r.Patch("/nodes/{id}", s.patchNode)
		r.Delete("/nodes/{id}", s.deleteNode)

		r.Post("/edges", s.postEdge)
		r.Delete("/edges/{id}", s.deleteEdge)
	})
	r.Post("/save", s.save)
	r.Get("/export.svg", s.exportSVG)

	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) getFlowsheet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) putFlowsheet(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Load(r.Body); err != nil {
		var pe *vis.ParseError
		switch {
		case errors.Is(err, vis.ErrLoadInProgress):
			writeError(w, http.StatusConflict, err)
		case errors.As(err, &pe):
			s.logger.Warn("rejected flowsheet document", "err", err)
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

type nodeRequest struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// pairsComplete reports whether position and size arrive as complete pairs.
// A lone coordinate is a malformed request, not an implicit default.
func (req nodeRequest) pairsComplete() bool {
	return (req.X == nil) == (req.Y == nil) && (req.Width == nil) == (req.Height == nil)
}

func (s *Server) postNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !req.pairsComplete() {
		writeError(w, http.StatusBadRequest, errors.New("x/y and width/height must be given as complete pairs"))
		return
	}

	cmd := model.AddNodeCmd{ID: req.ID, TypeTag: req.Type, Auto: true}
	if req.X != nil {
		cmd.Auto = false
		cmd.Pos = model.Position{X: *req.X, Y: *req.Y}
		cmd.Size = model.DefaultSize()
		if req.Width != nil {
			cmd.Size = model.Size{Width: *req.Width, Height: *req.Height}
		}
	}
	if err := s.apply(w, cmd); err != nil {
		return
	}
	writeJSON(w, http.StatusCreated, s.session.Snapshot())
}

func (s *Server) patchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !req.pairsComplete() {
		writeError(w, http.StatusBadRequest, errors.New("x/y and width/height must be given as complete pairs"))
		return
	}

	if req.X != nil {
		if err := s.apply(w, model.MoveNodeCmd{ID: id, Pos: model.Position{X: *req.X, Y: *req.Y}}); err != nil {
			return
		}
	}
	if req.Width != nil {
		if err := s.apply(w, model.ResizeNodeCmd{ID: id, Size: model.Size{Width: *req.Width, Height: *req.Height}}); err != nil {
			return
		}
	}
	if req.Type != "" {
		if err := s.apply(w, model.SetTypeCmd{ID: id, TypeTag: req.Type}); err != nil {
			return
		}
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.apply(w, model.DeleteNodeCmd{ID: chi.URLParam(r, "id")}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

type edgeRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort string `json:"from_port,omitempty"`
	ToPort   string `json:"to_port,omitempty"`
}

func (s *Server) postEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cmd := model.ConnectCmd{From: req.From, FromPort: req.FromPort, To: req.To, ToPort: req.ToPort}
	if err := s.apply(w, cmd); err != nil {
		return
	}
	writeJSON(w, http.StatusCreated, s.session.Snapshot())
}

func (s *Server) deleteEdge(w http.ResponseWriter, r *http.Request) {
	if err := s.apply(w, model.DeleteEdgeCmd{ID: chi.URLParam(r, "id")}); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if s.savePath == "" {
		writeError(w, http.StatusNotFound, errors.New("no save path configured"))
		return
	}
	if err := s.session.SaveFile(s.savePath); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("saved flowsheet", "path", s.savePath)
	writeJSON(w, http.StatusOK, map[string]string{"path": s.savePath})
}

func (s *Server) exportSVG(w http.ResponseWriter, r *http.Request) {
	var dot string
	s.session.View(func(fs *model.Flowsheet) {
		dot = nodelink.ToDOT(fs, nodelink.Options{})
	})
	svg, err := nodelink.RenderSVG(dot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// apply runs a mutation command and translates model errors to HTTP
// statuses. On error the response is already written and a non-nil error
// returned so handlers can bail out.
func (s *Server) apply(w http.ResponseWriter, cmd model.Command) error {
	err := s.session.Do(cmd)
	if err == nil {
		s.logger.Debug("applied", "cmd", cmd.String())
		return nil
	}
	switch {
	case errors.Is(err, model.ErrDuplicateNodeID):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, model.ErrUnknownNode),
		errors.Is(err, model.ErrUnknownSourceNode),
		errors.Is(err, model.ErrUnknownTargetNode),
		errors.Is(err, model.ErrUnknownEdge):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusBadRequest, err)
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
