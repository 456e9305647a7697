// Package mockservices serves stand-ins for the remote booking services, for local
// runs, demos and tests.
package mockservices

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dukex/flyout/pkg/config"
	"github.com/dukex/flyout/pkg/log"
	"github.com/dukex/flyout/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DefaultFlightDuration is added to the requested departure to produce arrivalTime.
const DefaultFlightDuration = 5 * time.Hour

// Paths lists every endpoint served, in step order.
var Paths = []string{
	config.PathFlight,
	config.PathRide,
	config.PathDining,
	config.PathDelivery,
	config.PathRental,
	config.PathHotel,
	config.PathCalendar,
	config.PathSummarizer,
}

// Fault makes an endpoint misbehave. Times limits how many requests are affected;
// zero means every request.
type Fault struct {
	Status int
	// Drop closes the connection without answering, which clients see as a transport failure.
	Drop  bool
	Times int
}

// Request is a recorded call.
type Request struct {
	Path string
	Body map[string]any
}

type Server struct {
	mu             sync.Mutex
	faults         map[string]*Fault
	requests       []Request
	omitArrival    bool
	flightDuration time.Duration
	logger         *slog.Logger
}

type Option func(*Server)

// WithoutArrival makes the flight endpoint leave arrivalTime out of its answer.
func WithoutArrival() Option {
	return func(s *Server) {
		s.omitArrival = true
	}
}

func WithFlightDuration(d time.Duration) Option {
	return func(s *Server) {
		s.flightDuration = d
	}
}

func WithFault(path string, fault Fault) Option {
	return func(s *Server) {
		s.faults[path] = &fault
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{
		faults:         make(map[string]*Fault),
		flightDuration: DefaultFlightDuration,
		logger:         log.WithModule("mockservices"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router returns the handler serving every booking endpoint plus /health.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods(http.MethodGet)

	for _, path := range Paths {
		router.HandleFunc("/"+path, s.handle(path)).Methods(http.MethodPost)
	}

	return router
}

func (s *Server) SetFault(path string, fault Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faults[path] = &fault
}

func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faults = make(map[string]*Fault)
}

// Requests returns the recorded calls in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)

	return out
}

// Calls counts the recorded calls to path, including failed ones.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}

	return n
}

// CalledPaths lists each distinct path called, in first-call order.
func (s *Server) CalledPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var paths []string

	seen := make(map[string]bool)

	for _, r := range s.requests {
		if !seen[r.Path] {
			seen[r.Path] = true
			paths = append(paths, r.Path)
		}
	}

	return paths
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handle(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})

			return
		}

		fault := s.record(path, body)

		if fault != nil {
			s.logger.InfoContext(r.Context(), "injecting fault", "path", path, "status", fault.Status, "drop", fault.Drop)

			if fault.Drop {
				dropConnection(w)

				return
			}

			writeJSON(w, fault.Status, map[string]string{"error": "injected failure", "path": path})

			return
		}

		writeJSON(w, http.StatusOK, s.confirmation(path, body))
	}
}

// record stores the call and consumes one use of the path's fault, if any.
func (s *Server) record(path string, body map[string]any) *Fault {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{Path: path, Body: body})

	fault, ok := s.faults[path]
	if !ok {
		return nil
	}

	applied := *fault

	if fault.Times > 0 {
		fault.Times--
		if fault.Times == 0 {
			delete(s.faults, path)
		}
	}

	return &applied
}

func (s *Server) confirmation(path string, body map[string]any) map[string]any {
	response := map[string]any{
		"confirmationId": uuid.NewString(),
		"status":         "confirmed",
		"service":        path,
	}

	guest, _ := body["guestName"].(string)

	switch path {
	case config.PathFlight:
		response["flightNumber"] = "FO" + strings.ToUpper(uuid.NewString()[:4])

		departure, _ := body["departureDate"].(string)
		if ts, err := models.ParseTimestamp(departure); err == nil && !s.omitArrival {
			response["arrivalTime"] = ts.Add(s.flightDuration).Format(time.RFC3339)
		}
	case config.PathRide:
		response["driver"] = "Sam"
		response["pickupTime"] = body["pickupTime"]
	case config.PathDining:
		response["table"] = 12
		response["time"] = body["time"]
	case config.PathDelivery:
		response["eta"] = body["deliveryTime"]
	case config.PathRental, config.PathHotel:
		response["checkin"] = body["checkin"]
	case config.PathCalendar:
		if entries, ok := body["events"].([]any); ok {
			response["added"] = len(entries)
		}
	case config.PathSummarizer:
		delete(response, "confirmationId")
		response["summary"] = fmt.Sprintf("Trip for %s is booked.", guestOr(guest, "the guest"))
	}

	return response
}

func guestOr(name, fallback string) string {
	if name == "" {
		return fallback
	}

	return name
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func dropConnection(w http.ResponseWriter) {
	hijacker, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	conn, _, err := hijacker.Hijack()
	if err != nil {
		return
	}

	_ = conn.Close()
}
