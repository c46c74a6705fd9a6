package redis

import (
	"context"
	"testing"
	"time"
)

func TestConfig_OptionsDefaults(t *testing.T) {
	opts := Config{Addr: "cache:6379", DB: 2}.options()
	if opts.ClientName != "ponto-api" {
		t.Fatalf("client name = %q", opts.ClientName)
	}
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Fatalf("timeouts = %s/%s", opts.DialTimeout, opts.ReadTimeout)
	}
	if opts.Addr != "cache:6379" || opts.DB != 2 || opts.PoolSize != 0 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestConfig_OptionsOverrides(t *testing.T) {
	opts := Config{
		Addr:       "cache:6379",
		Password:   "s3cret",
		ClientName: "ponto-worker",
		PoolSize:   32,
		Timeout:    time.Second,
	}.options()
	if opts.ClientName != "ponto-worker" || opts.PoolSize != 32 || opts.Password != "s3cret" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.WriteTimeout != time.Second {
		t.Fatalf("write timeout = %s", opts.WriteTimeout)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected a ping error")
	}
}
