package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cvetykz/flowerbot/internal/cache"
)

func newTestCache(opts cache.Options) *cache.Cache {
	return cache.New(opts, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func defaultOptions() cache.Options {
	return cache.Options{
		TTL:                 time.Hour,
		MinFrequency:        1,
		MaxSize:             100,
		SimilarityThreshold: 0.8,
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase and punctuation",
			input:    "Сколько стоят РОЗЫ?!",
			expected: "сколько стоят розы",
		},
		{
			name:     "whitespace collapsed",
			input:    "  сколько   стоят\tрозы  ",
			expected: "сколько стоят розы",
		},
		{
			name:     "digits kept",
			input:    "букет за 5000 тенге",
			expected: "букет за 5000 тенге",
		},
		{
			name:     "already normalized",
			input:    "сколько стоят розы",
			expected: "сколько стоят розы",
		},
		{
			name:     "punctuation adjacent to whitespace",
			input:    "розы ?!",
			expected: "розы",
		},
		{
			name:     "punctuation between words",
			input:    "букет , пожалуйста",
			expected: "букет пожалуйста",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := cache.Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
			if again := cache.Normalize(got); again != got {
				t.Errorf("normalization not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{
			name:     "identical",
			a:        "сколько стоят розы",
			b:        "сколько стоят розы",
			expected: true,
		},
		{
			name:     "subset of longer query",
			a:        "сколько стоят розы",
			b:        "сколько стоят розы сегодня в алматы",
			expected: true,
		},
		{
			name:     "low overlap",
			a:        "сколько стоят розы",
			b:        "как оформить доставку",
			expected: false,
		},
		{
			name:     "empty query",
			a:        "",
			b:        "сколько стоят розы",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := cache.Similar(tc.a, tc.b, 0.8); got != tc.expected {
				t.Errorf("Similar(%q, %q) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(defaultOptions())

	if _, ok := c.Get(ctx, "Сколько стоят розы?"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Put(ctx, "Сколько стоят розы?", "Розы стоят 1500 тенге")

	got, ok := c.Get(ctx, "сколько стоят розы")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != "Розы стоят 1500 тенге" {
		t.Errorf("unexpected cached answer: %q", got)
	}
}

func TestGetSimilarQueryHit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(defaultOptions())

	c.Get(ctx, "сколько стоят розы")
	c.Put(ctx, "сколько стоят розы", "1500 тенге")

	if _, ok := c.Get(ctx, "а сколько стоят розы"); !ok {
		t.Error("expected similar-query hit with 3/3 shorter-set overlap")
	}

	if _, ok := c.Get(ctx, "где купить тюльпаны дешево"); ok {
		t.Error("unexpected hit for unrelated query")
	}
}

func TestFrequencyGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := defaultOptions()
	opts.MinFrequency = 3
	c := newTestCache(opts)

	c.Get(ctx, "сколько стоят розы")
	c.Put(ctx, "сколько стоят розы", "1500 тенге")
	if _, ok := c.Get(ctx, "сколько стоят розы"); ok {
		t.Fatal("answer cached below the frequency gate")
	}

	// Two lookups above plus one more reach the gate of three.
	c.Get(ctx, "сколько стоят розы")
	c.Put(ctx, "сколько стоят розы", "1500 тенге")

	if _, ok := c.Get(ctx, "сколько стоят розы"); !ok {
		t.Error("expected hit once the query reached the frequency gate")
	}
}

func TestTTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := defaultOptions()
	opts.TTL = 50 * time.Millisecond
	c := newTestCache(opts)

	c.Get(ctx, "график работы")
	c.Put(ctx, "график работы", "С 9 до 21")

	if _, ok := c.Get(ctx, "график работы"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get(ctx, "график работы"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := defaultOptions()
	opts.TTL = 10 * time.Millisecond
	c := newTestCache(opts)

	c.Get(ctx, "график работы")
	c.Put(ctx, "график работы", "С 9 до 21")

	time.Sleep(20 * time.Millisecond)

	if removed := c.Sweep(ctx); removed != 1 {
		t.Errorf("expected 1 entry swept, got %d", removed)
	}
	if stats := c.Stats(); stats.Entries != 0 {
		t.Errorf("expected empty cache after sweep, got %d entries", stats.Entries)
	}
}

func TestEvictionPrefersLeastFrequent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts := defaultOptions()
	opts.MaxSize = 2
	c := newTestCache(opts)

	// "популярный" gets extra lookups before the cache fills.
	c.Get(ctx, "популярный запрос")
	c.Get(ctx, "популярный запрос")
	c.Get(ctx, "популярный запрос")
	c.Put(ctx, "популярный запрос", "ответ один")

	c.Get(ctx, "редкий запрос")
	c.Put(ctx, "редкий запрос", "ответ два")

	c.Get(ctx, "новый запрос")
	c.Put(ctx, "новый запрос", "ответ три")

	if _, ok := c.Get(ctx, "популярный запрос"); !ok {
		t.Error("frequent entry must survive eviction")
	}
	if _, ok := c.Get(ctx, "редкий запрос"); ok {
		t.Error("least frequent entry must be evicted")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(defaultOptions())

	c.Get(ctx, "сколько стоят розы")
	c.Get(ctx, "сколько стоят розы")
	c.Put(ctx, "сколько стоят розы", "1500 тенге")

	stats := c.Stats()
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if len(stats.MostFrequent) == 0 || stats.MostFrequent[0].Query != "сколько стоят розы" {
		t.Errorf("expected frequency leader, got %+v", stats.MostFrequent)
	}
}
