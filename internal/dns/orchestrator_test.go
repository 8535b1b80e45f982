package dns

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveAllPartialFailureIsolation(t *testing.T) {
	good := startUDPServer(t, func(query []byte) []byte {
		return replyTo(query, net.IPv4(192, 0, 2, 1), 60)
	})
	silent := startUDPServer(t, func(query []byte) []byte {
		return nil
	})

	registry, err := NewRegistry([]Target{
		{Name: "good", Kind: TargetUDP, Address: good},
		{Name: "silent", Kind: TargetUDP, Address: silent},
	})
	require.NoError(t, err)
	orch := NewOrchestrator(registry, 150*time.Millisecond)

	results := orch.ResolveAll(context.Background(), "example.com")
	require.Len(t, results, 2)

	require.Equal(t, StatusNoError, results["good"].Status)
	require.Equal(t, "192.0.2.1", results["good"].IP)
	require.Equal(t, "good", results["good"].Resolver)

	require.Equal(t, StatusTimeout, results["silent"].Status)
	require.Empty(t, results["silent"].IP)
	require.Equal(t, "silent", results["silent"].Resolver)

	// Status/address coupling holds for every result.
	for _, result := range results {
		require.Equal(t, result.Status.IsSuccess(), result.IP != "")
		if result.TTL != nil {
			require.NotEmpty(t, result.IP)
		}
	}
}

func TestResolveAllConcurrentFanOut(t *testing.T) {
	// Three targets each stalling ~100ms must complete together, not in sum.
	var servers []Target
	for _, name := range []string{"a", "b", "c"} {
		server := startUDPServer(t, func(query []byte) []byte {
			time.Sleep(100 * time.Millisecond)
			return replyTo(query, net.IPv4(192, 0, 2, 7), 60)
		})
		servers = append(servers, Target{Name: name, Kind: TargetUDP, Address: server})
	}
	registry, err := NewRegistry(servers)
	require.NoError(t, err)
	orch := NewOrchestrator(registry, time.Second)

	start := time.Now()
	results := orch.ResolveAll(context.Background(), "example.com")
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	for _, result := range results {
		require.Equal(t, StatusNoError, result.Status)
	}
	require.Less(t, elapsed, 250*time.Millisecond, "fan-out ran sequentially")
}

func TestResolveAllUnknownResolver(t *testing.T) {
	server := startUDPServer(t, func(query []byte) []byte {
		return replyTo(query, net.IPv4(192, 0, 2, 1), 60)
	})
	registry, err := NewRegistry([]Target{
		{Name: "known", Kind: TargetUDP, Address: server},
	})
	require.NoError(t, err)
	orch := NewOrchestrator(registry, time.Second)

	results := orch.ResolveAll(context.Background(), "example.com", "known", "ghost")
	require.Len(t, results, 2)
	require.Equal(t, StatusNoError, results["known"].Status)
	require.Equal(t, StatusUnknownResolver, results["ghost"].Status)
	require.Empty(t, results["ghost"].IP)
	require.Equal(t, "ghost", results["ghost"].Resolver)
}

func TestCompareTransportsSelectsUDPAndDoH(t *testing.T) {
	udp := startUDPServer(t, func(query []byte) []byte {
		return replyTo(query, net.IPv4(192, 0, 2, 1), 60)
	})
	doh := dohServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":0,"Answer":[{"name":"example.com.","type":1,"TTL":60,"data":"192.0.2.2"}]}`))
	})

	registry, err := NewRegistry([]Target{
		{Name: "udp1", Kind: TargetUDP, Address: udp},
		{Name: "system", Kind: TargetSystem},
		{Name: "doh1", Kind: TargetDoH, URL: doh.endpoint},
	})
	require.NoError(t, err)
	orch := NewOrchestrator(registry, time.Second)

	results := orch.CompareTransports(context.Background(), "example.com")
	require.Len(t, results, 2)
	require.Contains(t, results, "udp1")
	require.Contains(t, results, "doh1")
	require.NotContains(t, results, "system")
	require.Equal(t, "192.0.2.1", results["udp1"].IP)
	require.Equal(t, "192.0.2.2", results["doh1"].IP)
}
