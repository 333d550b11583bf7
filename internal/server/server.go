// Package server exposes the chat service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"faqbot/internal/service"
)

// ChatAnswerer is the server-facing subset of the chat service.
type ChatAnswerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Server handles the chat API routes. A nil chat service means startup
// initialization failed; requests are answered with 503 until the process
// is restarted with a working configuration.
type Server struct {
	chat ChatAnswerer
}

func New(chat ChatAnswerer) *Server {
	return &Server{chat: chat}
}

type queryRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type welcomeResponse struct {
	Message string `json:"message"`
}

// Handler returns the route table wrapped in panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/", s.handleChat)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return recoverPanics(mux)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "Chatbot service is currently unavailable. Please check server logs."})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid request body."})
		return
	}

	answer, err := s.chat.Answer(r.Context(), req.Query)
	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Query cannot be empty."})
	case err != nil:
		log.Printf("server: answering query failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "An internal server error occurred."})
	default:
		writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, welcomeResponse{Message: "Welcome to the FAQ chatbot API. POST your question to /chat/."})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("server: encoding response failed: %v", err)
	}
}

// recoverPanics keeps an unexpected panic from tearing down the listener;
// the caller gets a generic 500 and the detail stays in the server log.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("server: panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "An internal server error occurred."})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
