package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/acadportal/slaclock/pkg/types"
)

func TestKeyScheme(t *testing.T) {
	store := NewFromClient(goredis.NewClient(&goredis.Options{}), "")
	assert.Equal(t, "slaclock:holiday:university:2026-01-01", store.entryKey("university", "2026-01-01"))
	assert.Equal(t, "slaclock:holidays:university", store.indexKey("university"))

	custom := NewFromClient(goredis.NewClient(&goredis.Options{}), "portal:")
	assert.Equal(t, "portal:holiday:u:2026-01-01", custom.entryKey("u", "2026-01-01"))
}

func TestPutHoliday_BadDate(t *testing.T) {
	store := NewFromClient(goredis.NewClient(&goredis.Options{}), "")
	err := store.PutHoliday(context.Background(), "university", types.HolidayEntry{Date: "not-a-date"})
	assert.ErrorContains(t, err, "not-a-date")
}
