package dns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dohServer(t *testing.T, handler http.HandlerFunc) *DoHClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDoHClient(server.URL)
}

func TestDoHResolve(t *testing.T) {
	client := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/dns-json", r.Header.Get("Accept"))
		require.Equal(t, "example.com", r.URL.Query().Get("name"))
		require.Equal(t, "A", r.URL.Query().Get("type"))
		w.Write([]byte(`{"Status":0,"Answer":[
			{"name":"example.com.","type":1,"TTL":299,"data":"93.184.216.34"}]}`))
	})

	result := client.Resolve(context.Background(), "example.com", time.Second)
	require.Equal(t, StatusNoError, result.Status)
	require.Equal(t, "93.184.216.34", result.IP)
	require.NotNil(t, result.TTL)
	require.Equal(t, uint32(299), *result.TTL)
	require.Greater(t, result.LatencyMs, 0.0)
}

func TestDoHResolveSkipsNonAddressAnswers(t *testing.T) {
	client := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":0,"Answer":[
			{"name":"www.example.com.","type":5,"TTL":600,"data":"example.com."},
			{"name":"example.com.","type":1,"TTL":60,"data":"203.0.113.9"}]}`))
	})

	result := client.Resolve(context.Background(), "www.example.com", time.Second)
	require.Equal(t, StatusNoError, result.Status)
	require.Equal(t, "203.0.113.9", result.IP)
	require.Equal(t, uint32(60), *result.TTL)
}

func TestDoHResolveProviderError(t *testing.T) {
	client := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":3}`))
	})

	result := client.Resolve(context.Background(), "missing.example.com", time.Second)
	require.Equal(t, Status("DOH_ERROR_3"), result.Status)
	require.Empty(t, result.IP)
	require.Nil(t, result.TTL)
}

func TestDoHResolveNoAnswer(t *testing.T) {
	client := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":0,"Answer":[
			{"name":"example.com.","type":28,"TTL":60,"data":"2606:2800:220:1::1"}]}`))
	})

	result := client.Resolve(context.Background(), "example.com", time.Second)
	require.Equal(t, StatusNoAnswer, result.Status)
	require.Empty(t, result.IP)
}

func TestDoHResolveMalformedJSON(t *testing.T) {
	client := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":`))
	})

	result := client.Resolve(context.Background(), "example.com", time.Second)
	require.True(t, strings.HasPrefix(string(result.Status), "DOH_ERROR: "), "got %s", result.Status)
	require.Empty(t, result.IP)
}

func TestDoHResolveTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := NewDoHClient(server.URL)
	server.Close()

	result := client.Resolve(context.Background(), "example.com", time.Second)
	require.True(t, strings.HasPrefix(string(result.Status), "DOH_ERROR: "), "got %s", result.Status)
	require.Empty(t, result.IP)
	require.Nil(t, result.TTL)
}
