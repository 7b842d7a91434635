// Package server exposes an AccountingSystem over a JSON HTTP API, and pushes
// the portfolio report to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/etnz/coinfolio"
)

// Server serves the HTTP API and the websocket endpoint of an
// AccountingSystem.
type Server struct {
	as       *coinfolio.AccountingSystem
	hub      *Hub
	log      zerolog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
}

// New creates a Server and registers its routes. Report updates are pushed
// to the clients of hub.
func New(as *coinfolio.AccountingSystem, hub *Hub, log zerolog.Logger) *Server {
	s := &Server{
		as:  as,
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/api/holdings", s.handleHoldings).Methods(http.MethodGet)
	r.HandleFunc("/api/closed", s.handleClosed).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions/{id}", s.handleDeleteTransaction).Methods(http.MethodDelete)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartPolling pushes the report to websocket clients every interval, until
// ctx is done. Prices may change between two mutations.
func (s *Server) StartPolling(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Broadcast(ctx); err != nil {
				s.log.Error().Err(err).Msg("polling refresh failed")
			}
		}
	}
}

// Broadcast computes the report and sends it to every websocket client.
func (s *Server) Broadcast(ctx context.Context) error {
	report, err := s.as.Report(ctx)
	if err != nil {
		return err
	}
	s.hub.BroadcastJSON(report)
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.as.Report(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	report, err := s.as.Report(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report.Holdings)
}

func (s *Server) handleClosed(w http.ResponseWriter, r *http.Request) {
	report, err := s.as.Report(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report.Groups)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.as.Report(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summary)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	asset := coinfolio.NormalizeAsset(r.URL.Query().Get("asset"))
	txs, err := s.as.Transactions(r.Context(), asset)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	if txs == nil {
		txs = []coinfolio.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// transactionRequest creates a transaction, or replaces one when ID is set.
type transactionRequest struct {
	ID        string             `json:"id"`
	Asset     string             `json:"asset"`
	Type      coinfolio.TxType   `json:"type"`
	Amount    coinfolio.Quantity `json:"amount"`
	Price     coinfolio.Money    `json:"price"`
	Timestamp *time.Time         `json:"timestamp"`
	Notes     string             `json:"notes"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	at := time.Now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}
	tx, err := coinfolio.NewTransaction(req.Asset, req.Type, req.Amount, req.Price, at, req.Notes)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	status := http.StatusCreated
	if req.ID != "" {
		tx.ID = req.ID
		status = http.StatusOK
	}

	if err := s.as.Record(r.Context(), tx); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	s.broadcast(r.Context())
	writeJSON(w, status, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.as.Delete(r.Context(), id); err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	s.broadcast(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.hub.AddClient(conn)

	if report, err := s.as.Report(r.Context()); err == nil {
		_ = s.hub.SendJSON(conn, report)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.RemoveClient(conn)
			return
		}
	}
}

// broadcast pushes the new report after a mutation. The mutation already
// succeeded, so a failure is only logged.
func (s *Server) broadcast(ctx context.Context) {
	if err := s.Broadcast(ctx); err != nil {
		s.log.Warn().Err(err).Msg("could not broadcast report")
	}
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, coinfolio.ErrInvalidTransaction):
		return http.StatusBadRequest
	case errors.Is(err, coinfolio.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, coinfolio.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
