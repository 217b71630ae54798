package workload

import (
	"context"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESSearch sends body as a raw search request against index on every call.
func ESSearch(client *elasticsearch.TypedClient, index, body string) func(context.Context) error {
	return func(ctx context.Context) error {
		res, err := client.Search().
			Index(index).
			Raw(strings.NewReader(body)).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("es search: %w", err)
		}
		if res.TimedOut {
			return fmt.Errorf("es search timed out after %dms", res.Took)
		}
		return nil
	}
}
