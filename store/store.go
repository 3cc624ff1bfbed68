package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

const (
	fieldData    = "data"
	fieldFormat  = "format"
	fieldVersion = "version"

	defaultPrefix        = "xton:doc:"
	defaultChannelPrefix = "xton:events:"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrNilClient = errors.New("store: client is nil")
	ErrFormat    = errors.New("store: unreadable stored document")
)

// Option configures a Store.
type Option func(*config)

type config struct {
	prefix        string
	channelPrefix string
	parseOpts     []parse.ParseOption
}

// WithPrefix sets the prefix prepended to every document key.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithChannelPrefix sets the prefix of the pub/sub channels.
func WithChannelPrefix(prefix string) Option {
	return func(c *config) {
		c.channelPrefix = prefix
	}
}

// WithParseOptions sets the options used to decode stored documents.
func WithParseOptions(opts ...parse.ParseOption) Option {
	return func(c *config) {
		c.parseOpts = opts
	}
}

type Store struct {
	client        redis.UniversalClient
	prefix        string
	channelPrefix string
	parseOpts     []parse.ParseOption
}

func New(client redis.UniversalClient, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	cfg := config{
		prefix:        defaultPrefix,
		channelPrefix: defaultChannelPrefix,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store{
		client:        client,
		prefix:        cfg.prefix,
		channelPrefix: cfg.channelPrefix,
		parseOpts:     cfg.parseOpts,
	}, nil
}

// NewWithOptions creates a redis client from options and wraps it.
func NewWithOptions(options *redis.Options, opts ...Option) (*Store, error) {
	if options == nil {
		return nil, errors.New("store: redis options are required")
	}
	return New(redis.NewClient(options), opts...)
}

func (s *Store) Client() redis.UniversalClient {
	return s.client
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Put stores node under key and returns the new version. A positive ttl
// sets the document to expire; otherwise any previous expiry is removed.
func (s *Store) Put(ctx context.Context, key string, node *ir.Node, ttl time.Duration) (int64, error) {
	text, err := encode.String(node)
	if err != nil {
		return 0, err
	}
	rk := s.key(key)
	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rk, fieldData, text, fieldFormat, format.XTonFormat.String())
		incr = pipe.HIncrBy(ctx, rk, fieldVersion, 1)
		if ttl > 0 {
			pipe.Expire(ctx, rk, ttl)
		} else {
			pipe.Persist(ctx, rk)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store: put %q: %w", key, err)
	}
	version := incr.Val()
	if debug.Store() {
		debug.Logf("store: put %s version %d: %s\n", rk, version, text)
	}
	if err := s.publish(ctx, Event{Key: key, Op: OpPut, Version: version}); err != nil {
		return version, err
	}
	return version, nil
}

// Get returns the document stored under key and its version.
func (s *Store) Get(ctx context.Context, key string) (*ir.Node, int64, error) {
	res, err := s.client.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("store: get %q: %w", key, err)
	}
	if len(res) == 0 {
		return nil, 0, ErrNotFound
	}
	if f := res[fieldFormat]; f != "" && f != format.XTonFormat.String() {
		return nil, 0, fmt.Errorf("%w %q for %q", ErrFormat, f, key)
	}
	node, err := parse.ParseString(res[fieldData], s.parseOpts...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: get %q: %w", ErrFormat, key, err)
	}
	version, err := strconv.ParseInt(res[fieldVersion], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("store: get %q: bad version %q", key, res[fieldVersion])
	}
	return node, version, nil
}

// TTL returns the remaining lifetime of key, or zero when it does not
// expire.
func (s *Store) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, s.key(key)).Result()
	if err != nil {
		return 0, err
	}
	switch {
	case d == -2:
		return 0, ErrNotFound
	case d < 0:
		return 0, nil
	}
	return d, nil
}

// Delete removes key. It returns ErrNotFound if there was nothing to
// remove.
func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	if debug.Store() {
		debug.Logf("store: deleted %s\n", s.key(key))
	}
	return s.publish(ctx, Event{Key: key, Op: OpDelete})
}

// Keys lists the stored keys matching the glob pattern, without the
// store prefix, in sorted order.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: keys: %w", err)
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}
