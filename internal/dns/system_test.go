package dns

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSystemStatusMapping(t *testing.T) {
	require.Equal(t, StatusTimeout, systemStatus(&net.DNSError{Err: "i/o timeout", IsTimeout: true}))
	require.Equal(t, StatusNxDomain, systemStatus(&net.DNSError{Err: "no such host", IsNotFound: true}))
	require.True(t, strings.HasPrefix(string(systemStatus(errors.New("boom"))), "ERROR: "))
}

func TestResolveSystemCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := ResolveSystem(ctx, "example.com", time.Second)
	require.False(t, result.Status.IsSuccess())
	require.Empty(t, result.IP)
	require.Nil(t, result.TTL)
}
