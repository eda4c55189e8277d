package client_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// iadminStub answers every post with a fixed status and body and remembers
// what it was sent.
type iadminStub struct {
	mu          sync.Mutex
	server      *httptest.Server
	status      int
	body        string
	location    string
	hits        int
	path        string
	method      string
	contentType string
	form        url.Values
}

func newIadminStub(body string) *iadminStub {
	s := &iadminStub{status: http.StatusOK, body: body}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *iadminStub) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
	if r.URL.Path == "/followed" {
		w.Write([]byte("Y,redirect followed"))
		return
	}
	r.ParseForm()
	s.path, s.method = r.URL.Path, r.Method
	s.contentType = r.Header.Get("Content-Type")
	s.form = r.PostForm
	if s.location != "" {
		w.Header().Set("Location", s.location)
	}
	w.WriteHeader(s.status)
	w.Write([]byte(s.body))
}

func (s *iadminStub) Reply(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body = status, body
}

func (s *iadminStub) Redirect(status int, body string) {
	s.Reply(status, body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = s.server.URL + "/followed"
}

func (s *iadminStub) Url(path string) string {
	return s.server.URL + path
}

func (s *iadminStub) Form() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *iadminStub) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *iadminStub) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *iadminStub) Request() (method, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method, s.contentType
}

func (s *iadminStub) Close() {
	s.server.Close()
}

func selectors(form url.Values) (out []string) {
	for k := range form {
		if strings.HasPrefix(k, "op-") {
			out = append(out, k)
		}
	}
	return
}
