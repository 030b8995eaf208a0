package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/logger"
	"github.com/kshit7897/gurukrupa-erp-kc-sub000/internal/store"
)

// companyHeader scopes every request to one company's books. There is
// no ambient tenant: handlers thread the value explicitly.
const companyHeader = "X-Company-ID"

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
	log    zerolog.Logger
}

func New(st *store.Store, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{store: st, router: r, addr: addr, log: logger.WithComponent("server")}

	r.Route("/api/v1", func(r chi.Router) {
		// Parties
		r.Post("/parties", s.createParty)
		r.Get("/parties", s.listParties)
		r.Get("/parties/{id}", s.getParty)
		r.Patch("/parties/{id}", s.updatePartyContact)
		r.Delete("/parties/{id}", s.deleteParty)

		// Items
		r.Post("/items", s.createItem)
		r.Get("/items", s.listItems)
		r.Get("/items/{id}", s.getItem)

		// Invoices
		r.Post("/invoices", s.createInvoice)
		r.Get("/invoices", s.listInvoices)
		r.Get("/invoices/{id}", s.getInvoice)
		r.Put("/invoices/{id}", s.replaceInvoice)
		r.Delete("/invoices/{id}", s.deleteInvoice)

		// Payments
		r.Post("/payments", s.createPayment)
		r.Get("/payments", s.listPayments)
		r.Get("/payments/{id}", s.getPayment)

		// Manual income/expense transactions
		r.Post("/other-txns", s.createOtherTxn)
		r.Get("/other-txns", s.listOtherTxns)

		// Reports
		r.Get("/reports/ledger/{partyID}", s.partyLedger)
		r.Get("/reports/outstanding", s.outstanding)
		r.Get("/reports/pnl", s.profitAndLoss)
		r.Get("/reports/cashbook", s.cashbook)
		r.Get("/reports/dashboard", s.dashboard)
		r.Get("/reports/dashboard/export", s.dashboardExport)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("server listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func companyID(r *http.Request) string {
	if id := r.Header.Get(companyHeader); id != "" {
		return id
	}
	return "default"
}
