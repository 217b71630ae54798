package workload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPRequest describes the request sent by an http workload.
type HTTPRequest struct {
	Method string
	URL    string
	Header map[string]string
	Body   string
}

// HTTP sends req on every call. Responses outside 2xx fail the call.
func HTTP(client *http.Client, req HTTPRequest) func(context.Context) error {
	return func(ctx context.Context) error {
		var body io.Reader
		if req.Body != "" {
			body = strings.NewReader(req.Body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
		if err != nil {
			return fmt.Errorf("http create request: %w", err)
		}
		for k, v := range req.Header {
			httpReq.Header.Set(k, v)
		}
		if req.Body != "" && httpReq.Header.Get("Content-Type") == "" {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("http read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("http status %d from %s %s", resp.StatusCode, req.Method, req.URL)
		}
		return nil
	}
}
