package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
)

// Session is the server-side record behind an admin login.
type Session struct {
	Token     string    `msgpack:"-"          json:"-"`
	CreatedAt time.Time `msgpack:"created_at" json:"created_at"`
	ExpiresAt time.Time `msgpack:"expires_at" json:"expires_at,omitempty"` // zero when the session never expires
	RemoteIP  string    `msgpack:"remote_ip"  json:"-"`
	UserAgent string    `msgpack:"user_agent" json:"-"`
}

// Meta describes the client opening a session.
type Meta struct {
	RemoteIP  string
	UserAgent string
}

type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

// NewStore keeps sessions for ttl. ttl <= 0 keeps them until logout.
func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl, now: time.Now}
}

func (s *Store) Create(ctx context.Context, m Meta) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		RemoteIP:  m.RemoteIP,
		UserAgent: m.UserAgent,
	}
	ttl := time.Duration(0)
	if s.ttl > 0 {
		ttl = s.ttl
		sess.ExpiresAt = now.Add(s.ttl)
	}

	encoded, err := msgpack.Marshal(sess)
	if err != nil {
		return Session{}, err
	}

	if err := s.rdb.Set(ctx, key(sess.Token), encoded, ttl).Err(); err != nil {
		return Session{}, apperr.Transport("save session", err)
	}
	return sess, nil
}

// Find returns nil, nil for an unknown or expired token.
func (s *Store) Find(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	res, err := s.rdb.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperr.Transport("load session", err)
	}

	var sess Session
	if err := msgpack.Unmarshal(res, &sess); err != nil {
		return nil, err
	}
	sess.Token = token

	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return apperr.Transport("delete session", err)
	}
	return nil
}

func key(token string) string {
	return "session:" + token
}
