// Package switchboardtest provides an in-process OA Switchboard API for tests.
package switchboardtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

const (
	Token = "a token value"

	authorizeOK = `{"token":"` + Token + `","participant":{"organisation":"Test Press"}}`
	messageOK   = `{"message":"Success"}`
)

// Request is one call received by the fake.
type Request struct {
	Path          string
	Authorization string
	Body          string
}

// Server answers /authorize and /message with configurable replies. The
// zero configuration accepts every login and every message.
type Server struct {
	*httptest.Server

	mu              sync.Mutex
	authorizeStatus int
	authorizeBody   string
	messageStatus   int
	messageBody     string
	requests        []Request
}

func NewServer() *Server {
	s := &Server{
		authorizeStatus: http.StatusOK,
		authorizeBody:   authorizeOK,
		messageStatus:   http.StatusOK,
		messageBody:     messageOK,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// BaseURL is the URL to configure as the live or sandbox endpoint. The path
// prefix lets tests tell two fakes apart.
func (s *Server) BaseURL(prefix string) string {
	return s.URL + "/" + strings.Trim(prefix, "/")
}

func (s *Server) SetAuthorize(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorizeStatus, s.authorizeBody = status, body
}

func (s *Server) SetMessage(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageStatus, s.messageBody = status, body
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Body:          string(body),
	})
	var status int
	var reply string
	switch {
	case r.Method != http.MethodPost:
		status, reply = http.StatusMethodNotAllowed, `{"error":true}`
	case strings.HasSuffix(r.URL.Path, "/authorize"):
		status, reply = s.authorizeStatus, s.authorizeBody
	case strings.HasSuffix(r.URL.Path, "/message"):
		status, reply = s.messageStatus, s.messageBody
	default:
		status, reply = http.StatusNotFound, `{"error":true,"errorMessage":["not found"]}`
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}
