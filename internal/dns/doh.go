// =============================================================================
// internal/dns/doh.go - DNS-over-HTTPS JSON transport adapter
// =============================================================================
package dns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/miekg/dns"
)

// dohResponse mirrors the JSON shape served by the Google and Cloudflare
// DoH APIs.
type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

type dohAnswer struct {
	Name string `json:"name"`
	Type uint16 `json:"type"`
	TTL  uint32 `json:"TTL"`
	Data string `json:"data"`
}

// DoHClient queries a single DoH provider through its JSON API.
type DoHClient struct {
	endpoint string
	client   *http.Client
}

// NewDoHClient creates a client for the given DoH JSON endpoint,
// e.g. https://dns.google/resolve.
func NewDoHClient(endpoint string) *DoHClient {
	return &DoHClient{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

func (d *DoHClient) String() string {
	return d.endpoint
}

// Resolve issues an HTTPS GET for an A record and extracts the first A
// answer from the JSON body. All transport and parse failures reduce to a
// DoH status; latency spans the whole request.
func (d *DoHClient) Resolve(ctx context.Context, domain string, timeout time.Duration) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s?name=%s&type=A", d.endpoint, url.QueryEscape(domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failedResult(domain, dohErrorStatus(err), start)
	}
	req.Header.Set("Accept", "application/dns-json")

	resp, err := d.client.Do(req)
	if err != nil {
		return failedResult(domain, dohErrorStatus(err), start)
	}
	defer resp.Body.Close()

	var body dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return failedResult(domain, dohErrorStatus(err), start)
	}

	if body.Status != dns.RcodeSuccess {
		return failedResult(domain, dohStatus(body.Status), start)
	}

	for _, answer := range body.Answer {
		if answer.Type == dns.TypeA {
			ttl := answer.TTL
			return Result{
				Domain:    domain,
				IP:        answer.Data,
				TTL:       &ttl,
				Status:    StatusNoError,
				LatencyMs: msSince(start),
				Timestamp: time.Now().UTC(),
			}
		}
	}
	return failedResult(domain, StatusNoAnswer, start)
}
