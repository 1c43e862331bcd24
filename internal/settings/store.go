package settings

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
	"github.com/bgbarbearia/barbershop-admin/internal/model"
)

const keyNotifyURL = "settings:notify_webhook_url"

// Store keeps admin settings in Redis. An unset notification URL falls back to the configured one.
type Store struct {
	rdb      redis.Cmdable
	fallback string
}

func NewStore(rdb redis.Cmdable, fallbackNotifyURL string) *Store {
	return &Store{rdb: rdb, fallback: strings.TrimSpace(fallbackNotifyURL)}
}

// NotifyURL returns the new-customer webhook URL, or "" when none is configured.
func (s *Store) NotifyURL(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, keyNotifyURL).Result()
	if errors.Is(err, redis.Nil) {
		return s.fallback, nil
	}
	if err != nil {
		return "", apperr.Transport("read notify url", err)
	}
	return v, nil
}

// SetNotifyURL stores raw. An empty value removes the override.
func (s *Store) SetNotifyURL(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if err := s.rdb.Del(ctx, keyNotifyURL).Err(); err != nil {
			return apperr.Transport("clear notify url", err)
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Validation("notify_webhook_url", "must be an absolute http(s) URL")
	}

	if err := s.rdb.Set(ctx, keyNotifyURL, raw, 0).Err(); err != nil {
		return apperr.Transport("save notify url", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context) (model.Settings, error) {
	u, err := s.NotifyURL(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	return model.Settings{NotifyWebhookURL: u}, nil
}

func (s *Store) Update(ctx context.Context, in model.Settings) (model.Settings, error) {
	if err := s.SetNotifyURL(ctx, in.NotifyWebhookURL); err != nil {
		return model.Settings{}, err
	}
	return s.Get(ctx)
}
