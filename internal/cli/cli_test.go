package cli_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/specarith/internal/arithexpr"
	"github.com/vk/specarith/internal/cli"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		wantExit  bool
		wantCode  int
		checkFunc func(t *testing.T, path string, check, explain bool, hub, ns string, ttl time.Duration)
	}{
		{
			name: "positional path with defaults",
			args: []string{"session.hcl"},
			checkFunc: func(t *testing.T, path string, check, explain bool, hub, ns string, ttl time.Duration) {
				require.Equal(t, "session.hcl", path)
				require.False(t, check)
				require.False(t, explain)
				require.Empty(t, hub)
				require.Empty(t, ns)
				require.Equal(t, arithexpr.DefaultCacheTTL, ttl)
			},
		},
		{
			name: "flags take precedence over positional",
			args: []string{"-s", "short.hcl", "-check", "-explain", "-cache-ttl", "30s", "other.hcl"},
			checkFunc: func(t *testing.T, path string, check, explain bool, hub, ns string, ttl time.Duration) {
				require.Equal(t, "short.hcl", path)
				require.True(t, check)
				require.True(t, explain)
				require.Equal(t, 30*time.Second, ttl)
			},
		},
		{
			name: "hub options",
			args: []string{"-session", "dir", "-hub-url", "http://localhost:3000", "-hub-namespace", "/viewer"},
			checkFunc: func(t *testing.T, path string, check, explain bool, hub, ns string, ttl time.Duration) {
				require.Equal(t, "dir", path)
				require.Equal(t, "http://localhost:3000", hub)
				require.Equal(t, "/viewer", ns)
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path prints usage", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2},
		{name: "bad log format", args: []string{"-log-format", "xml", "s.hcl"}, wantCode: 2},
		{name: "bad log level", args: []string{"-log-level", "trace", "s.hcl"}, wantCode: 2},
		{name: "negative ttl", args: []string{"-cache-ttl", "-1s", "s.hcl"}, wantCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := cli.Parse(tc.args, out)

			if tc.wantCode != 0 {
				var exitErr *cli.ExitError
				require.True(t, errors.As(err, &exitErr))
				require.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				require.Nil(t, cfg)
				require.Contains(t, out.String(), "Usage:")
				return
			}
			tc.checkFunc(t, cfg.SessionPath, cfg.Check, cfg.Explain, cfg.HubURL, cfg.HubNamespace, cfg.CacheTTL)
		})
	}
}

func TestParse_UsageListsFunctions(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := cli.Parse([]string{"-h"}, out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Contains(t, out.String(), "ptp")
	require.Contains(t, out.String(), "{name}")
}
