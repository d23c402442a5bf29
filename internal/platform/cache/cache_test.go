package cache

import (
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/2", false},
		{"empty", "", true},
		{"wrong-scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts, err := Options("redis://localhost:6379/2")
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if opts.ClientName != "inkwell" {
		t.Errorf("ClientName = %q, want inkwell", opts.ClientName)
	}
	if opts.DB != 2 || opts.Addr != "localhost:6379" {
		t.Errorf("Addr/DB = %s/%d", opts.Addr, opts.DB)
	}

	named, err := Options("redis://localhost:6379?client_name=replica-a")
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if named.ClientName != "replica-a" {
		t.Errorf("ClientName = %q, want replica-a", named.ClientName)
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := New(t.Context(), "redis://localhost:59999")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}
