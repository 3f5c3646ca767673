// Package transport moves publish API requests from folioctl to foliod. The
// daemon binds to loopback only; remote publishes ride an SSH local
// port-forward, so the wire security model is plain SSH.
package transport

import (
	"context"
	"net/http"
)

// Transport executes HTTP requests against foliod over a chosen network path.
type Transport interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
	Close() error
}

// Local is the direct transport for a foliod on the same machine.
type Local struct {
	baseHost string
	http     *http.Client
}

func NewLocal(addr string) *Local {
	return &Local{
		baseHost: addr,
		http:     &http.Client{},
	}
}

func (t *Local) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	outReq := req.Clone(ctx)
	urlCopy := *outReq.URL
	urlCopy.Scheme = "http"
	urlCopy.Host = t.baseHost
	outReq.URL = &urlCopy
	outReq.RequestURI = ""
	if outReq.Host == "" {
		outReq.Host = urlCopy.Host
	}
	return t.http.Do(outReq)
}

func (t *Local) Close() error { return nil }
