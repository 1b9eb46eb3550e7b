package importing

import (
	"context"
	"testing"
	"time"
)

func TestDebouncer_WaitsFixedDelay(t *testing.T) {
	debouncer := NewDebouncer(50 * time.Millisecond)
	event := WatchEvent{Path: "/unsorted/AlbumX", IsDirectory: true, ObservedAt: time.Now()}

	start := time.Now()
	got, ok := debouncer.Wait(context.Background(), event)
	if !ok {
		t.Fatal("expected event to be released")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected at least 50ms delay, got %s", elapsed)
	}
	if got != event {
		t.Errorf("expected event to be returned unchanged, got %+v", got)
	}
}

func TestDebouncer_CancelledContextDropsEvent(t *testing.T) {
	debouncer := NewDebouncer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool, 1)
	go func() {
		_, ok := debouncer.Wait(ctx, WatchEvent{Path: "/unsorted/a.mp3"})
		done <- ok
	}()
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected cancelled wait to report false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestDebouncer_IndependentPerEvent(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)
	start := time.Now()

	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		go func() {
			debouncer.Wait(context.Background(), WatchEvent{Path: "/unsorted/AlbumX/track.mp3"})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}
	// events for the same path are not serialised or coalesced
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected concurrent delays, took %s", elapsed)
	}
}
