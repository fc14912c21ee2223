package httpclient

import (
	"net/http"
	"time"
)

// New returns a client for outbound API calls. The transport keeps a
// few idle connections per host so repeated completion requests reuse
// them.
func New(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
