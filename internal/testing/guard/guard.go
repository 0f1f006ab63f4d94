package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SKUBASE_TEST_MODE") == "" {
			_ = os.Setenv("SKUBASE_TEST_MODE", "1")
		}
	})
}
