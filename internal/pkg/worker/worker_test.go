package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"content_moderation/internal/domain/moderation/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	calls    []string
	bodies   []string
	ext      []map[string]string
}

func (s *fakeSender) PushToAccount(accountID string, title, body string, ext map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, accountID)
	s.bodies = append(s.bodies, body)
	s.ext = append(s.ext, ext)
	if s.failures > 0 {
		s.failures--
		return errors.New("push unavailable")
	}
	return nil
}

func (s *fakeSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *countingRecorder) RecordNotification(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]int{}
	}
	r.results[result]++
}

func (r *countingRecorder) get(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[result]
}

func rejectedRecord() model.ModerationRecord {
	reason := "Content contains inappropriate keywords: spam"
	r := model.ModerationRecord{
		ContentType:      model.ContentTypeSpaceDescription,
		ContentID:        "space-9",
		AuthorID:         "author-9",
		Status:           model.StatusRejected,
		ModerationReason: &reason,
	}
	r.ID = "rec-9"
	return r
}

func TestNotifyDelivers(t *testing.T) {
	sender := &fakeSender{}
	rec := &countingRecorder{}
	pool := NewWorkerPool(sender, 2, 10, rec)
	pool.Start()
	defer pool.Stop()

	pool.Notify(context.Background(), rejectedRecord())

	require.Eventually(t, func() bool { return rec.get("delivered") == 1 }, time.Second, 5*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, []string{"author-9"}, sender.calls)
	assert.Equal(t, "Your space description has been rejected. Reason: Content contains inappropriate keywords: spam", sender.bodies[0])
	assert.Equal(t, "rec-9", sender.ext[0]["recordId"])
	assert.Equal(t, "rejected", sender.ext[0]["status"])
}

func TestNotifyRetriesThenSucceeds(t *testing.T) {
	sender := &fakeSender{failures: 2}
	rec := &countingRecorder{}
	pool := NewWorkerPool(sender, 1, 10, rec)
	pool.RetryDelay = time.Millisecond
	pool.Start()
	defer pool.Stop()

	pool.Notify(context.Background(), rejectedRecord())

	require.Eventually(t, func() bool { return rec.get("delivered") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, sender.callCount())
	assert.Equal(t, 2, rec.get("retried"))
}

func TestNotifyDropsAfterMaxRetry(t *testing.T) {
	sender := &fakeSender{failures: 100}
	rec := &countingRecorder{}
	pool := NewWorkerPool(sender, 1, 10, rec)
	pool.RetryDelay = time.Millisecond
	pool.Start()
	defer pool.Stop()

	pool.Notify(context.Background(), rejectedRecord())

	require.Eventually(t, func() bool { return rec.get("dropped") == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, pool.MaxRetry+1, sender.callCount())
}

func TestAddTaskQueueFull(t *testing.T) {
	rec := &countingRecorder{}
	// 不启动 worker，队列不会被消费
	pool := NewWorkerPool(&fakeSender{}, 1, 2, rec)

	for i := 0; i < 3; i++ {
		pool.AddTask(NotificationTask{RecordID: "r", AuthorID: "a"})
	}

	assert.Len(t, pool.TaskQueue, 2)
	assert.Equal(t, 1, rec.get("dropped"))
}

func TestBuildMessage(t *testing.T) {
	title, body := buildMessage(NotificationTask{ContentType: "review", Status: "approved"})
	assert.Equal(t, "Content moderation update", title)
	assert.Equal(t, "Your review has been approved.", body)
}
