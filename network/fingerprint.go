package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	utls "github.com/refraction-networking/utls"
	"github.com/sbskip/sbskip/log"
	"golang.org/x/net/http2"
)

// fingerprintTransport sends HTTPS requests over connections whose Client Hello
// mimics Chrome. Bilibili's edge serves degraded pages to stock Go clients.
//
// Requests go out over HTTP/2 first. When that fails, for instance because the
// server only speaks HTTP/1.1, the request is replayed over an HTTP/1.1-only
// connection. Plain HTTP requests use the base transport.
type fingerprintTransport struct {
	plain http.RoundTripper
	h2    http.RoundTripper
	h1    http.RoundTripper
}

func newFingerprintTransport(plain http.RoundTripper) *fingerprintTransport {
	return &fingerprintTransport{
		plain: plain,
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, "h2", "http/1.1")
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, "http/1.1")
			},
			ResponseHeaderTimeout: timeout,
		},
	}
}

func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	if req.Context().Err() != nil {
		return nil, err
	}

	retry, rerr := rewind(req)
	if rerr != nil {
		return nil, fmt.Errorf("h2 request failed (%w), replay impossible: %v", err, rerr)
	}

	log.Debugf("h2 request to %s failed, falling back to http/1.1: %v", req.URL.Host, err)
	return t.h1.RoundTrip(retry)
}

// rewind clones req with a fresh body.
func rewind(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}

	if req.GetBody == nil {
		return nil, fmt.Errorf("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body
	return retry, nil
}

// dialTLS opens a TLS connection with Chrome's Client Hello, advertising protos via ALPN.
func dialTLS(ctx context.Context, network, addr string, protos ...string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	spec, err := chromeSpec(protos)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}, utls.HelloCustom)

	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply client hello: %w", err)
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// chromeSpec is Chrome's Client Hello with its ALPN list replaced by protos.
// The parrot's own ALPN extension would otherwise override Config.NextProtos.
func chromeSpec(protos []string) (utls.ClientHelloSpec, error) {
	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		return spec, fmt.Errorf("client hello spec: %w", err)
	}

	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = protos
		}
	}
	return spec, nil
}
