package gforms

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formrush/formrush/internal/formwire"
)

const defaultCacheTTL = 10 * time.Minute

// Cache keeps recently parsed forms in Redis so re-parsing the same form
// (the configure/confirm round trips of a fill session) skips the page
// fetch.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(formID string) string {
	return "parsedform:" + formID
}

// Get returns the cached form, or nil on a miss.
func (c *Cache) Get(ctx context.Context, formID string) (*formwire.ParsedForm, error) {
	data, err := c.client.Get(ctx, c.key(formID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var form formwire.ParsedForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Cache) Set(ctx context.Context, form *formwire.ParsedForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(form.FormID), data, c.ttl).Err()
}
