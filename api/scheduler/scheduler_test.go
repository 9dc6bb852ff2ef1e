package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryRunsOnInterval(t *testing.T) {
	s := New()
	var runs int32
	_, err := s.Every(50*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
	})
	assert.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRemoveCancelsJob(t *testing.T) {
	s := New()
	var runs int32
	id, err := s.Every(20*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
	})
	assert.NoError(t, err)

	s.Remove(id)
	s.Start()
	defer s.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&runs))
}
