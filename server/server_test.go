package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2"

	"github.com/willibrandon/nugetcompat/frameworks"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(nil, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, query url.Values, out any) *http.Response {
	t.Helper()
	u := ts.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestParse(t *testing.T) {
	ts := newTestServer(t)

	var got FrameworkResponse
	resp := getJSON(t, ts, "/v1/parse", url.Values{"moniker": {"net40-client"}}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, frameworks.NetFramework, got.Identifier)
	assert.Equal(t, "4.0", got.Version)
	assert.Equal(t, "Client", got.Profile)
	assert.Equal(t, ".NETFramework,Version=v4.0,Profile=Client", got.FullName)
	assert.Equal(t, "net40-client", got.ShortName)
	assert.False(t, got.Portable)
	assert.False(t, got.Unsupported)
}

func TestParse_Portable(t *testing.T) {
	ts := newTestServer(t)

	var got FrameworkResponse
	getJSON(t, ts, "/v1/parse", url.Values{"moniker": {"portable-net45+win8"}}, &got)

	assert.True(t, got.Portable)
	assert.Equal(t, "Profile7", got.Profile)
	assert.Equal(t, "portable-net45+win", got.ShortName)
}

func TestParse_Unsupported(t *testing.T) {
	ts := newTestServer(t)

	var got FrameworkResponse
	resp := getJSON(t, ts, "/v1/parse", url.Values{"moniker": {"foo10"}}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, got.Unsupported)
}

func TestParse_BadRequest(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"missing", nil, "missing query parameter moniker"},
		{"invalid portable", url.Values{"moniker": {"portable-net45+"}}, ""},
		{"too many dashes", url.Values{"moniker": {"net40-client-x"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got errorResponse
			resp := getJSON(t, ts, "/v1/parse", tt.query, &got)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, got.Error)
			if tt.want != "" {
				assert.Equal(t, tt.want, got.Error)
			}
		})
	}
}

func TestShortName(t *testing.T) {
	ts := newTestServer(t)

	var got FrameworkResponse
	resp := getJSON(t, ts, "/v1/shortname", url.Values{"name": {"Silverlight, Version=v4.0, Profile=WindowsPhone71"}}, &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "wp71", got.ShortName)

	resp = getJSON(t, ts, "/v1/shortname", url.Values{"name": {"Silverlight"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompatible(t *testing.T) {
	ts := newTestServer(t)

	var got CompatibleResponse
	resp := getJSON(t, ts, "/v1/compatible", url.Values{
		"project": {"net45"},
		"package": {"sl5", "netstandard1.1"},
	}, &got)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, got.Compatible)
	assert.Equal(t, "net45", got.Project)
	require.Len(t, got.Decisions, 2)
	assert.Equal(t, DecisionResponse{Package: "sl50", Rule: frameworks.RuleDifferentFamily}, got.Decisions[0])
	assert.Equal(t, DecisionResponse{Package: "netstandard1.1", Rule: frameworks.RuleNetStandardGeneration, Compatible: true}, got.Decisions[1])
}

func TestCompatible_Incompatible(t *testing.T) {
	ts := newTestServer(t)

	var got CompatibleResponse
	getJSON(t, ts, "/v1/compatible", url.Values{"project": {"net40"}, "package": {"net45"}}, &got)

	assert.False(t, got.Compatible)
	require.Len(t, got.Decisions, 1)
	assert.Equal(t, frameworks.RuleSameFamily, got.Decisions[0].Rule)
}

func TestCompatible_NoPackages(t *testing.T) {
	ts := newTestServer(t)

	var got CompatibleResponse
	getJSON(t, ts, "/v1/compatible", url.Values{"project": {"net40"}}, &got)

	assert.True(t, got.Compatible)
	assert.Empty(t, got.Decisions)
}

func TestNearest(t *testing.T) {
	ts := newTestServer(t)

	var got struct {
		Nearest *FrameworkResponse `json:"nearest"`
	}
	getJSON(t, ts, "/v1/nearest", url.Values{
		"project":   {"net451"},
		"candidate": {"net20", "net45", "netstandard1.2"},
	}, &got)

	require.NotNil(t, got.Nearest)
	assert.Equal(t, "net45", got.Nearest.ShortName)

	got.Nearest = nil
	getJSON(t, ts, "/v1/nearest", url.Values{"project": {"sl5"}, "candidate": {"net45"}}, &got)
	assert.Nil(t, got.Nearest)
}

func TestFolder(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name      string
		query     url.Values
		wantShort string
		wantRest  string
	}{
		{"file path", url.Values{"path": {`lib\net40\foo.dll`}}, "net40", "foo.dll"},
		{"file path without framework", url.Values{"path": {`lib\foo.dll`}}, "", "foo.dll"},
		{"strict unknown", url.Values{"path": {`abc\foo.dll`}, "mode": {"strict"}}, "Unsupported", "foo.dll"},
		{"lenient unknown", url.Values{"path": {`abc\foo.dll`}, "mode": {"lenient"}}, "", `abc\foo.dll`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FolderResponse
			resp := getJSON(t, ts, "/v1/folder", tt.query, &got)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantRest, got.Rest)
			if tt.wantShort == "" {
				assert.Nil(t, got.Framework)
				return
			}
			require.NotNil(t, got.Framework)
			assert.Equal(t, tt.wantShort, got.Framework.ShortName)
		})
	}

	resp := getJSON(t, ts, "/v1/folder", url.Values{"path": {"a/b"}, "mode": {"bogus"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRange(t *testing.T) {
	ts := newTestServer(t)

	var got RangeResponse
	resp := getJSON(t, ts, "/v1/range", url.Values{"range": {"[1.0, 2.0)"}, "version": {"1.5"}}, &got)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[1.0, 2.0)", got.Range)
	assert.Equal(t, "(≥ 1.0 && < 2.0)", got.Pretty)
	assert.Equal(t, "1.0", got.MinVersion)
	assert.Equal(t, "2.0", got.MaxVersion)
	assert.True(t, got.MinInclusive)
	assert.False(t, got.MaxInclusive)
	require.NotNil(t, got.Satisfies)
	assert.True(t, *got.Satisfies)
	assert.Equal(t, "[1.5, 1.6)", got.SafeRange)
	assert.Equal(t, []string{"1.5", "1.5.0", "1.5.0.0"}, got.Spellings)
}

func TestRange_BadRequest(t *testing.T) {
	ts := newTestServer(t)

	var got errorResponse
	resp := getJSON(t, ts, "/v1/range", url.Values{"range": {"[1.0"}}, &got)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "'[1.0' is not a valid version string.", got.Error)

	resp = getJSON(t, ts, "/v1/range", url.Values{"range": {"1.0"}, "version": {"x"}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfiles(t *testing.T) {
	ts := newTestServer(t)

	var got []ProfileResponse
	resp := getJSON(t, ts, "/v1/profiles", nil, &got)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "44", resp.Header.Get("X-Total-Count"))
	require.Len(t, got, 44)

	var profile7 *ProfileResponse
	for i := range got {
		if got[i].Name == "Profile7" {
			profile7 = &got[i]
		}
	}
	require.NotNil(t, profile7)
	assert.Equal(t, "portable-net45+win", profile7.ShortName)
	assert.Equal(t, []string{"net45", "win"}, profile7.Frameworks)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	var report struct {
		Status string `json:"status"`
	}
	resp := getJSON(t, ts, "/healthz", nil, &report)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", report.Status)

	getJSON(t, ts, "/v1/parse", url.Values{"moniker": {"net45"}}, nil)

	resp = getJSON(t, ts, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp := getJSON(t, ts, "/v1/parse", url.Values{"moniker": {"net45"}}, nil)
	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "generated request ID should be a UUID")

	id := uuid.NewString()
	req, err := http.NewRequest("GET", ts.URL+"/v1/parse?moniker=net45", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/parse", "text/plain", strings.NewReader("net45"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"no address", func(c *Config) { c.Addr = "" }, "listen address is required"},
		{"cert without key", func(c *Config) { c.TLSCertFile = "cert.pem" }, "both a certificate and a key"},
		{"http3 without tls", func(c *Config) { c.HTTP3 = true }, "HTTP/3 requires TLS"},
		{"http3 with tls", func(c *Config) {
			c.HTTP3 = true
			c.TLSCertFile = "cert.pem"
			c.TLSKeyFile = "key.pem"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestListenAndServe_H2C(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(nil, nil).ListenAndServe(ctx, cfg) }()

	// Prior-knowledge HTTP/2 over cleartext
	client := &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
		Timeout: 2 * time.Second,
	}

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := client.Get("http://" + cfg.Addr + "/healthz")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 3*time.Second, 50*time.Millisecond)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, resp.ProtoMajor)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
