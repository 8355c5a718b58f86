// Package network provides the HTTP clients shared by the segment lookup and page downloads.
package network

import (
	"net/http"
	"time"
)

const timeout = 30 * time.Second

// Client is the plain HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   timeout,
	Transport: newTransport(),
}

// NewClient returns Client, or a client presenting a Chrome TLS fingerprint
// on HTTPS connections when fingerprint is set.
func NewClient(fingerprint bool) *http.Client {
	if !fingerprint {
		return Client
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newFingerprintTransport(Client.Transport),
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = timeout
	t.ExpectContinueTimeout = time.Second
	return t
}
