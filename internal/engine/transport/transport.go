package transport

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	utls "github.com/refraction-networking/utls"
)

// UserAgent is sent by every outbound client.
const UserAgent = "geofind/0.1 (nearby business finder)"

// ParseProxy validates a proxy URL. Only http, https and socks5 proxies
// with a host are accepted.
func ParseProxy(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid proxy URL %q", raw)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, errors.Errorf("invalid proxy URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid proxy URL %q: missing host", raw)
	}
	return u, nil
}

// NewHTTPClient builds the shared HTTP client. TLS handshakes use a Chrome
// ClientHello pinned to HTTP/1.1. With a proxy the standard TLS stack is
// used because the proxy owns the connection. A zero timeout means none.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		DialContext: dialer.DialContext,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				host = addr
			}

			spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
			if err != nil {
				conn.Close()
				return nil, err
			}
			for i, ext := range spec.Extensions {
				if alpn, ok := ext.(*utls.ALPNExtension); ok {
					alpn.AlpnProtocols = []string{"http/1.1"}
					spec.Extensions[i] = alpn
					break
				}
			}

			tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
			if err := tlsConn.ApplyPreset(&spec); err != nil {
				conn.Close()
				return nil, err
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if proxyURL != "" {
		parsed, err := ParseProxy(proxyURL)
		if err != nil {
			return nil, err
		}
		tr.Proxy = http.ProxyURL(parsed)
		tr.DialTLSContext = nil
		tr.TLSClientConfig = &tls.Config{}
	}

	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
