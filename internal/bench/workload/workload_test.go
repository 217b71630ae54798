package workload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/microbench/internal/bench/spec"
)

func TestSpin(t *testing.T) {
	body := Spin(2 * time.Millisecond)
	start := time.Now()
	body()
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestSleep(t *testing.T) {
	body := Sleep(time.Millisecond)
	start := time.Now()
	body()
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

func TestHTTP(t *testing.T) {
	var gotMethod, gotBody, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Bench")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	t.Run("2xx", func(t *testing.T) {
		call := HTTP(srv.Client(), HTTPRequest{
			Method: http.MethodPost,
			URL:    srv.URL + "/ok",
			Header: map[string]string{"X-Bench": "yes"},
			Body:   `{"q":"x"}`,
		})
		require.NoError(t, call(context.Background()))
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "yes", gotHeader)
		assert.Equal(t, `{"q":"x"}`, gotBody)
	})

	t.Run("non-2xx", func(t *testing.T) {
		call := HTTP(srv.Client(), HTTPRequest{Method: http.MethodGet, URL: srv.URL + "/fail"})
		err := call(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})
}

func TestCreateFromSpec(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s, err := spec.Parse([]byte(`
engines:
  api:
    type: http
    connection: ` + srv.URL + `/
tasks:
  - {name: noop, kind: noop}
  - {name: spin, kind: spin, duration: 10us}
  - {name: nap, kind: sleep, duration: 10us}
  - {name: health, kind: http, engine: api, path: /health}
`))
	require.NoError(t, err)

	workloads, cleanup, err := CreateFromSpec(context.Background(), s)
	require.NoError(t, err)
	defer cleanup()

	require.Len(t, workloads, 4)
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}
	assert.Equal(t, []string{"noop", "spin", "nap", "health"}, names)

	for _, w := range workloads[:3] {
		fn, ok := w.Body.(func())
		require.True(t, ok, "%s is a plain func", w.Name)
		fn()
	}

	call, ok := workloads[3].Body.(func(context.Context) error)
	require.True(t, ok)
	assert.NoError(t, call(context.Background()), "trailing slash in the connection is trimmed")
}
