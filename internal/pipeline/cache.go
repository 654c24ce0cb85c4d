package pipeline

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/raincast/internal/domain"
)

// analogueSet is the averaged history standing in for one calendar day.
type analogueSet struct {
	mean  domain.WeatherRecord
	count int
}

// analogueKey identifies a calendar day independent of year. Analogue
// selection depends only on month and day, so range and month queries that
// cross years reuse entries.
func analogueKey(date time.Time) string {
	return fmt.Sprintf("%02d-%02d", int(date.Month()), date.Day())
}

// newAnalogueCache returns a thread-safe LRU holding at least one entry.
func newAnalogueCache(size int) *lru.Cache[string, analogueSet] {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New[string, analogueSet](size)
	if err != nil {
		// lru.New only fails for a non-positive size.
		panic(err)
	}
	return c
}
