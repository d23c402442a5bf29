package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/p-n-ai/inkwell/internal/notify"
)

func receive(t *testing.T, sub *notify.Subscription) []byte {
	t.Helper()
	select {
	case msg, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return nil
}

func TestMemoryHub_PublishSubscribe(t *testing.T) {
	hub := notify.NewMemoryHub()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	if err := hub.Publish(context.Background(), "s1", []byte(`{"status":"idle"}`)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := string(receive(t, sub)); got != `{"status":"idle"}` {
		t.Errorf("received %q", got)
	}
}

func TestMemoryHub_TopicsAreIsolated(t *testing.T) {
	hub := notify.NewMemoryHub()
	defer hub.Close()

	a, _ := hub.Subscribe(context.Background(), "a")
	b, _ := hub.Subscribe(context.Background(), "b")
	defer a.Close()
	defer b.Close()

	hub.Publish(context.Background(), "a", []byte("for a"))

	if got := string(receive(t, a)); got != "for a" {
		t.Errorf("a received %q", got)
	}
	select {
	case msg := <-b.C:
		t.Errorf("b received %q, want nothing", msg)
	default:
	}
}

func TestMemoryHub_CloseSubscription(t *testing.T) {
	hub := notify.NewMemoryHub()
	defer hub.Close()

	sub, _ := hub.Subscribe(context.Background(), "s1")
	if hub.Subscribers("s1") != 1 {
		t.Fatalf("Subscribers() = %d, want 1", hub.Subscribers("s1"))
	}
	sub.Close()
	sub.Close()

	if hub.Subscribers("s1") != 0 {
		t.Errorf("Subscribers() = %d after Close, want 0", hub.Subscribers("s1"))
	}
	if _, ok := <-sub.C; ok {
		t.Error("channel should be closed")
	}
	if err := hub.Publish(context.Background(), "s1", []byte("x")); err != nil {
		t.Errorf("Publish() without subscribers error = %v", err)
	}
}

func TestMemoryHub_ContextCancelClosesSubscription(t *testing.T) {
	hub := notify.NewMemoryHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, _ := hub.Subscribe(ctx, "s1")
	cancel()

	select {
	case _, ok := <-sub.C:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
}

func TestMemoryHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := notify.NewMemoryHub()
	defer hub.Close()

	sub, _ := hub.Subscribe(context.Background(), "s1")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), "s1", []byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestMemoryHub_Close(t *testing.T) {
	hub := notify.NewMemoryHub()
	sub, _ := hub.Subscribe(context.Background(), "s1")
	hub.Close()

	if _, ok := <-sub.C; ok {
		t.Error("channel should be closed after hub Close")
	}
	late, err := hub.Subscribe(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Subscribe() after Close error = %v", err)
	}
	if _, ok := <-late.C; ok {
		t.Error("subscriptions on a closed hub should be closed")
	}
}
