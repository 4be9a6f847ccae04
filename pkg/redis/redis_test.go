package redis

import (
	"strings"
	"testing"

	"github.com/richxcame/order-fraud-guard/pkg/config"
)

// ============== Redis Config Tests ==============

func TestRedisConfig_RedisAddr(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.RedisConfig
		expected string
	}{
		{
			name:     "default localhost",
			cfg:      config.RedisConfig{Host: "localhost", Port: "6379"},
			expected: "localhost:6379",
		},
		{
			name:     "custom host and port",
			cfg:      config.RedisConfig{Host: "redis.example.com", Port: "6380"},
			expected: "redis.example.com:6380",
		},
		{
			name:     "empty values",
			cfg:      config.RedisConfig{},
			expected: ":",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.cfg.RedisAddr()
			if result != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, result)
			}
		})
	}
}

// ============== Connection Tests ==============

func TestNewRedisClient_Unreachable(t *testing.T) {
	cfg := &config.RedisConfig{Host: "127.0.0.1", Port: "1"}

	client, err := NewRedisClient(cfg)
	if err == nil {
		client.Close()
		t.Fatal("expected error for unreachable redis")
	}
	if !strings.Contains(err.Error(), "unable to connect to redis") {
		t.Errorf("unexpected error: %v", err)
	}
}
