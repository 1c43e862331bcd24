package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgbarbearia/barbershop-admin/internal/kafka"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
)

type chanSource struct {
	in chan kafka.Message

	mu        sync.Mutex
	committed []int64
}

func (s *chanSource) Fetch(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-s.in:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (s *chanSource) Commit(_ context.Context, m kafka.Message) error {
	s.mu.Lock()
	s.committed = append(s.committed, m.Offset)
	s.mu.Unlock()
	return nil
}

func (s *chanSource) committedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed)
}

type fakePoster struct {
	mu   sync.Mutex
	urls []string
	fail bool
}

func (p *fakePoster) Post(_ context.Context, url string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
	if p.fail {
		return errors.New("status=500")
	}
	return nil
}

func envelope(t *testing.T, offset int64, url string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(model.Envelope{
		ID:    "01",
		URL:   url,
		Event: model.CustomerEvent{Event: model.EventNewCustomer, Customer: model.Customer{ID: "c1"}},
	})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func runWorker(t *testing.T, src *chanSource, p *fakePoster, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewNotifierKafka(src, p, time.Second)
	w.Workers = 2

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.committedCount() == want }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done
}

func TestNotifierCommitsDeliveredAndFailed(t *testing.T) {
	src := &chanSource{in: make(chan kafka.Message, 4)}
	p := &fakePoster{fail: true}

	src.in <- envelope(t, 1, "http://hook/a")
	src.in <- envelope(t, 2, "http://hook/b")

	runWorker(t, src, p, 2)
	assert.ElementsMatch(t, []string{"http://hook/a", "http://hook/b"}, p.urls)
}

func TestNotifierSkipsPoisonMessages(t *testing.T) {
	src := &chanSource{in: make(chan kafka.Message, 4)}
	p := &fakePoster{}

	src.in <- kafka.Message{Offset: 1, Value: []byte("{not json")}
	src.in <- envelope(t, 2, "")
	src.in <- envelope(t, 3, "http://hook/ok")

	runWorker(t, src, p, 3)
	assert.Equal(t, []string{"http://hook/ok"}, p.urls)
}
