// Package redis implements the HolidayStore interface using Redis/Valkey.
// Entries live as JSON values under <prefix>holiday:<calendar>:<date> with a
// per-calendar sorted-set index for range listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.HolidayStore = (*Store)(nil)

// Config holds the Redis connection settings.
type Config struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// Store implements the HolidayStore backed by Redis/Valkey.
type Store struct {
	client *goredis.Client
	prefix string
}

// New creates a new Store.
func New(cfg *Config) *Store {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "slaclock:"
	}
	return &Store{client: client, prefix: prefix}
}

// NewFromClient creates a Store from an existing client (useful for testing).
func NewFromClient(client *goredis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "slaclock:"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) entryKey(calendar, date string) string {
	return s.prefix + "holiday:" + calendar + ":" + date
}

func (s *Store) indexKey(calendar string) string {
	return s.prefix + "holidays:" + calendar
}

// PutHoliday inserts or replaces an entry.
func (s *Store) PutHoliday(ctx context.Context, calendar string, entry types.HolidayEntry) error {
	if _, err := time.Parse(types.DateFormat, entry.Date); err != nil {
		return fmt.Errorf("holiday date %q: %w", entry.Date, err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling holiday: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.entryKey(calendar, entry.Date), data, 0)
	// Score 0 for all members: lexicographic range queries over dates.
	pipe.ZAdd(ctx, s.indexKey(calendar), goredis.Z{Score: 0, Member: entry.Date})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing holiday %s/%s: %w", calendar, entry.Date, err)
	}
	return nil
}

// GetHoliday returns the entry for a day, or nil when none is recorded.
func (s *Store) GetHoliday(ctx context.Context, calendar string, day time.Time) (*types.HolidayEntry, error) {
	data, err := s.client.Get(ctx, s.entryKey(calendar, day.Format(types.DateFormat))).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting holiday: %w", err)
	}

	var entry types.HolidayEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling holiday: %w", err)
	}
	return &entry, nil
}

// ListRange returns all entries with from <= date <= to, date-ascending.
func (s *Store) ListRange(ctx context.Context, calendar string, from, to time.Time) ([]types.HolidayEntry, error) {
	dates, err := s.client.ZRangeByLex(ctx, s.indexKey(calendar), &goredis.ZRangeBy{
		Min: "[" + from.Format(types.DateFormat),
		Max: "[" + to.Format(types.DateFormat),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("listing holidays %s: %w", calendar, err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	keys := make([]string, len(dates))
	for i, date := range dates {
		keys[i] = s.entryKey(calendar, date)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetching holidays %s: %w", calendar, err)
	}

	entries := make([]types.HolidayEntry, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // index member without a value; treat as absent
		}
		var entry types.HolidayEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("unmarshaling holiday: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DeleteHoliday removes an entry; removing an absent entry is not an error.
func (s *Store) DeleteHoliday(ctx context.Context, calendar string, day time.Time) error {
	date := day.Format(types.DateFormat)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.entryKey(calendar, date))
	pipe.ZRem(ctx, s.indexKey(calendar), date)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting holiday %s/%s: %w", calendar, date, err)
	}
	return nil
}

// Start initializes the connection.
func (s *Store) Start(ctx context.Context) error {
	return s.Ping(ctx)
}

// Stop closes the connection.
func (s *Store) Stop(context.Context) error {
	return s.client.Close()
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}
