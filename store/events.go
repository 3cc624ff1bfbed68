package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	redis "github.com/redis/go-redis/v9"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/gomap"
	"github.com/signadot/xton-format/go-xton/parse"
)

type Op string

const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Event announces a change to a stored document. Version is zero for
// deletes.
type Event struct {
	Key     string `xton:"key"`
	Op      Op     `xton:"op"`
	Version int64  `xton:"version,omitempty"`
}

func (s *Store) channel(key string) string {
	return s.channelPrefix + strings.ReplaceAll(key, " ", "_")
}

func (s *Store) publish(ctx context.Context, ev Event) error {
	node, err := gomap.ToIR(ev)
	if err != nil {
		return err
	}
	msg, err := encode.String(node)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.channel(ev.Key), msg).Err(); err != nil {
		return fmt.Errorf("store: publish %s %q: %w", ev.Op, ev.Key, err)
	}
	return nil
}

// Watcher delivers the events of one key until closed.
type Watcher struct {
	pubsub *redis.PubSub
	ch     chan Event
	cancel context.CancelFunc

	closeOnce sync.Once
}

// Watch subscribes to the events of key. The subscription is active when
// Watch returns.
func (s *Store) Watch(ctx context.Context, key string) (*Watcher, error) {
	pubsub := s.client.Subscribe(ctx, s.channel(key))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("store: watch %q: %w", key, err)
	}
	wctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		pubsub: pubsub,
		ch:     make(chan Event),
		cancel: cancel,
	}
	go w.forward(wctx)
	return w, nil
}

func (w *Watcher) Events() <-chan Event {
	return w.ch
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		err = w.pubsub.Close()
	})
	return err
}

func (w *Watcher) forward(ctx context.Context) {
	defer close(w.ch)
	msgs := w.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			node, err := parse.ParseString(msg.Payload)
			if err != nil {
				continue
			}
			var ev Event
			if err := gomap.FromIR(node, &ev); err != nil {
				continue
			}
			select {
			case w.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
