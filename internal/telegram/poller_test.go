package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu             sync.Mutex
	batches        [][]Update
	offsets        []int64
	failFirst      bool
	webhookDeleted bool
	cancel         context.CancelFunc
}

func (f *fakeSource) GetUpdates(ctx context.Context, offset int64, _ time.Duration, _ int) ([]Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offsets = append(f.offsets, offset)
	if f.failFirst {
		f.failFirst = false
		return nil, errors.New("network down")
	}
	if len(f.batches) == 0 {
		f.cancel()
		return nil, ctx.Err()
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeSource) DeleteWebhook(context.Context, bool) error {
	f.webhookDeleted = true
	return nil
}

func TestPollerRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		failFirst: true,
		batches: [][]Update{
			{{UpdateID: 5}, {UpdateID: 6}},
			{{UpdateID: 7}},
		},
		cancel: cancel,
	}
	handler := &recordingHandler{err: errors.New("ignored")}
	poller := NewPoller(source, handler, nil, 0, time.Millisecond, 10)

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop")
	}

	if !source.webhookDeleted {
		t.Error("webhook not deleted before polling")
	}
	if len(handler.updates) != 3 {
		t.Fatalf("handled %d updates, want 3", len(handler.updates))
	}
	want := []int64{0, 0, 7, 8}
	if len(source.offsets) != len(want) {
		t.Fatalf("offsets = %v, want %v", source.offsets, want)
	}
	for i := range want {
		if source.offsets[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", source.offsets, want)
		}
	}
}
