package web

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/client"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/logger"
)

//go:embed static/index.html
var indexHTML []byte

// Server serves the live dashboard web UI. It talks to the API server
// through the same HTTP client the CLI and TUI use, so all three
// surfaces agree on what the books say.
type Server struct {
	addr   string
	api    *client.Client
	router chi.Router
	log    zerolog.Logger
}

func NewServer(addr string, api *client.Client) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:   addr,
		api:    api,
		router: r,
		log:    logger.WithComponent("web"),
	}

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return s
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// ListenAndServe starts the web dashboard server.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("web dashboard listening")
	return http.ListenAndServe(s.addr, s.router)
}
