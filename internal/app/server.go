// Package app exposes the front's route surface over HTTP: the pages the
// browser navigated become JSON endpoints, guarded by the session.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/clientstore"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/config"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/listing"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/metrics"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/refdata"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/session"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

type Server struct {
	log     *zap.SugaredLogger
	cfg     *config.Config
	session *session.Store
	api     *api.Client
	kv      *clientstore.Store
	refdata *refdata.Cache
	listing *listing.Controller
	surveys *listing.Surveys
	orch    *submit.Orchestrator

	flows *flowRegistry

	srv *http.Server
}

func NewServer(cfg *config.Config, log *zap.SugaredLogger, sess *session.Store, client *api.Client,
	kv *clientstore.Store, ref *refdata.Cache, lst *listing.Controller, svs *listing.Surveys,
	orch *submit.Orchestrator) *Server {
	return &Server{
		log:     log,
		cfg:     cfg,
		session: sess,
		api:     client,
		kv:      kv,
		refdata: ref,
		listing: lst,
		surveys: svs,
		orch:    orch,
		flows:   newFlowRegistry(),
	}
}

// Router mirrors the original client-side route table: "/" goes to the
// dashboard, unauthenticated users land on /login, and the respondent route
// stays open.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.requestID)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/login", s.handleLogin)
	r.Get("/responder-evaluacion/{token}", s.handleRespondGet)
	r.Post("/responder-evaluacion/{token}", s.handleRespondSubmit)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/dashboard", http.StatusSeeOther)
		})
		r.Post("/logout", s.handleLogout)
		r.Put("/change-password", s.handleChangePassword)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/dashboard/export", s.handleDashboardExport)
		r.Put("/dashboard/{id}/status", s.handleStatusChange)
		r.Get("/dashboard/{id}/detalles", s.handleDetails)
		r.Put("/dashboard/{id}/should-send", s.handleShouldSend)
		r.Get("/dashboard/{id}/respuesta", s.handleResponseDetail)

		r.Get("/formularios", s.handleSurveys)
		r.Delete("/formularios/{id}", s.handleSurveyDelete)
		r.Get("/crear-formulario", s.handleFormBlank)
		r.Post("/crear-formulario", s.handleFormCreate)
		r.Get("/editar-formulario/{id}", s.handleFormLoad)
		r.Put("/editar-formulario/{id}", s.handleFormUpdate)

		r.Get("/crear-evaluacion", s.handleEvaluationBlank)
		r.Post("/crear-evaluacion", s.handleEvaluationCreate)
		r.Get("/editar-evaluacion/{id}", s.handleEvaluationLoad)
		r.Put("/editar-evaluacion/{id}", s.handleEvaluationUpdate)
		r.Post("/editar-evaluacion/{id}/duplicar", s.handleEvaluationDuplicate)

		r.Get("/resultados/{id}", s.handleResults)
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) {
	s.srv = &http.Server{Addr: addr, Handler: s.Router()}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorw("servidor HTTP terminó", "err", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	t0 := time.Now()
	if err := s.kv.Ping(); err != nil {
		http.Error(w, "state db not ok: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	metrics.ObserveStorePing(time.Since(t0))
	_, _ = w.Write([]byte("ok"))
}
