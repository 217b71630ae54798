package in_mem

import (
	"testing"

	"github.com/DjordjeVuckovic/microbench/internal/storage"
	"github.com/DjordjeVuckovic/microbench/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return NewStore()
	})
}
