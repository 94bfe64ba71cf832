package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsoleSummaryLogsOncePerInterval(t *testing.T) {
	c := newConsoleSummary(250 * time.Millisecond)
	var s statisticsSampler

	logged := 0
	for range 40 {
		if c.tick(0.03125, &s) {
			logged++
		}
	}
	// 40 frames of 1/32s span 1.25s.
	assert.Equal(t, 5, logged)
}

func TestConsoleSummaryDefaultsToOneSecond(t *testing.T) {
	assert.Equal(t, time.Second, newConsoleSummary(0).interval)
}
