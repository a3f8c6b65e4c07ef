package memory

import (
	"testing"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/store"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/store/storetest"
)

func TestMemoryStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
