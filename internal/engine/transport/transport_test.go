package transport

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClientRejectsBadProxy(t *testing.T) {
	if _, err := NewHTTPClient("://bad", 0); err == nil {
		t.Fatalf("expected an error for a malformed proxy URL")
	}
	if _, err := NewHTTPClient("gopher://proxy:70", 0); err == nil {
		t.Fatalf("expected an error for an unsupported proxy scheme")
	}
}

func TestNewHTTPClientWithProxy(t *testing.T) {
	c, err := NewHTTPClient("http://127.0.0.1:3128", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.Timeout != 5*time.Second {
		t.Fatalf("expected timeout to be kept, got %v", c.Timeout)
	}

	tr := c.Transport.(*http.Transport)
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	proxy, err := tr.Proxy(req)
	if err != nil || proxy == nil || proxy.Host != "127.0.0.1:3128" {
		t.Fatalf("expected requests to go through the proxy, got %v, %v", proxy, err)
	}
	if tr.DialTLSContext != nil {
		t.Fatalf("proxied transport must use the standard TLS stack")
	}
}

func TestNewHTTPClientDirect(t *testing.T) {
	c, err := NewHTTPClient("", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	tr := c.Transport.(*http.Transport)
	if tr.Proxy != nil || tr.DialTLSContext == nil {
		t.Fatalf("direct transport should dial TLS itself")
	}
}
