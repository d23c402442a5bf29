package notify

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisHub_PublishSubscribe(t *testing.T) {
	url := os.Getenv("INKWELL_TEST_CACHE_URL")
	if url == "" || testing.Short() {
		t.Skip("INKWELL_TEST_CACHE_URL not set")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL() error = %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	hub := NewRedisHub(client, "inkwell-test:")
	defer hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := hub.Subscribe(ctx, "s1")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer sub.Close()

	if err := hub.Publish(ctx, "s1", []byte("hello")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-sub.C:
		if string(msg) != "hello" {
			t.Errorf("received %q, want hello", msg)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestNewRedisHub_DefaultPrefix(t *testing.T) {
	hub := NewRedisHub(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	if hub.prefix != defaultChannelPrefix {
		t.Errorf("prefix = %q, want %q", hub.prefix, defaultChannelPrefix)
	}
}
