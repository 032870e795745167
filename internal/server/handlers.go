package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/haskel/adcfox/internal/errors"
	"github.com/haskel/adcfox/internal/estimator"
	"github.com/haskel/adcfox/internal/server/middleware"
)

// CodeBadRequest marks request bodies that could not be decoded.
const CodeBadRequest errors.Code = "BAD_REQUEST"

type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Estimator string `json:"estimator"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ReadyResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

type SupportedResponse struct {
	Accuracy estimator.Accuracy `json:"accuracy"`
}

type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
	Hint  string      `json:"hint,omitempty"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	est, _ := s.current()
	resp := InfoResponse{
		Name:      "adcfox",
		Version:   s.version,
		Estimator: est.Name(),
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	_, info := s.current()
	if info.Degraded {
		s.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Ready:  false,
			Reason: "model not loaded: " + info.Path,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, ReadyResponse{Ready: true})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	_, info := s.current()
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.process == nil {
		http.Error(w, "process monitor unavailable", http.StatusServiceUnavailable)
		return
	}

	state, err := s.process.Collect()
	if err != nil {
		s.logger.Error("process stats collection failed", "error", err)
		http.Error(w, "process stats unavailable", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleEnergySupported(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	est, _ := s.current()
	s.writeJSON(w, http.StatusOK, SupportedResponse{Accuracy: est.EnergySupported(q)})
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	est, _ := s.current()
	res, err := est.Energy(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAreaSupported(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	est, _ := s.current()
	s.writeJSON(w, http.StatusOK, SupportedResponse{Accuracy: est.AreaSupported(q)})
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	q, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	est, _ := s.current()
	res, err := est.Area(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (estimator.Query, bool) {
	var q estimator.Query

	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "request body too large") {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeJSON(w, status, ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  CodeBadRequest,
			Hint:  `expected {"class_name", "class_attrs", "action_name"}`,
		})
		return q, false
	}

	return q, true
}

// statusFor maps an estimation error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.CodeMissingAttribute, errors.CodeUnparsableNumeric, errors.CodeInvalidAttribute:
		return http.StatusUnprocessableEntity
	case errors.CodeUnsupportedQuery:
		return http.StatusBadRequest
	case errors.CodeNoMatchingModelEntry:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := errors.CodeOf(err)
	if !ok {
		s.logger.Error("unexpected estimation failure",
			"error", err,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
			Code:  "INTERNAL",
		})
		return
	}

	s.writeJSON(w, statusFor(code), ErrorResponse{
		Error: err.Error(),
		Code:  code,
		Hint:  errors.FlattenHints(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
