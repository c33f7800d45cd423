package repo

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	HistoryRepoJSONPrefix = "topbar-menus-"
	HistoryRepoJSONSuffix = ".json"
	CurrentKey            = HistoryRepoJSONPrefix + "current" + HistoryRepoJSONSuffix

	// SnapshotTimeLayout fixed width, so keys sort like their timestamps
	SnapshotTimeLayout = "2006-01-02T15:04:05.000000000Z"
)

type (
	// History keeps the last loaded menu document as current snapshot plus
	// a limited number of timestamped backups
	History struct {
		l            *zap.Logger
		storage      Storage
		historyDir   string // directory used for default filesystem storage
		historyLimit int
		now          func() time.Time
		mu           sync.RWMutex
	}
	HistoryOption func(*History)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HistoryWithHistoryLimit(v int) HistoryOption {
	return func(o *History) {
		o.historyLimit = v
	}
}

func HistoryWithHistoryDir(v string) HistoryOption {
	return func(o *History) {
		o.historyDir = v
	}
}

func HistoryWithStorage(s Storage) HistoryOption {
	return func(o *History) {
		o.storage = s
	}
}

// HistoryWithClock replaces time.Now for snapshot keys
func HistoryWithClock(v func() time.Time) HistoryOption {
	return func(o *History) {
		o.now = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewHistory(l *zap.Logger, opts ...HistoryOption) (*History, error) {
	inst := &History{
		l:            l.Named("history"),
		historyDir:   "/var/lib/topbar",
		historyLimit: 2,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.storage == nil {
		storage, err := NewFilesystemStorage(inst.historyDir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create default filesystem storage")
		}
		inst.storage = storage
	}

	return inst, nil
}

// SnapshotKey storage key of a backup taken at t
func SnapshotKey(t time.Time) string {
	return HistoryRepoJSONPrefix + t.UTC().Format(SnapshotTimeLayout) + HistoryRepoJSONSuffix
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Add stores the document as backup and as current snapshot, then drops
// backups beyond the limit.
func (h *History) Add(ctx context.Context, jsonBytes []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := SnapshotKey(h.now())
	h.l.Debug("adding snapshot", zap.String("key", key), zap.Int("length", len(jsonBytes)))

	if err := h.storage.Write(ctx, key, jsonBytes); err != nil {
		return errors.Wrap(err, "failed to write snapshot "+key)
	}
	if err := h.storage.Write(ctx, CurrentKey, jsonBytes); err != nil {
		return errors.Wrap(err, "failed to write current snapshot")
	}
	return errors.Wrap(h.prune(ctx), "failed to clean up history")
}

// GetCurrent reads the current snapshot into buf
func (h *History) GetCurrent(ctx context.Context, buf *bytes.Buffer) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data, err := h.storage.Read(ctx, CurrentKey)
	if err != nil {
		return err
	}
	_, err = buf.Write(data)
	return err
}

// Snapshots backup keys, newest first
func (h *History) Snapshots(ctx context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshots(ctx)
}

// Close releases resources held by the history storage.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storage != nil {
		return h.storage.Close()
	}
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *History) snapshots(ctx context.Context) ([]string, error) {
	keys, err := h.storage.List(ctx, HistoryRepoJSONPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	keys = slices.DeleteFunc(keys, func(key string) bool {
		return key == CurrentKey || !strings.HasSuffix(key, HistoryRepoJSONSuffix)
	})
	// backends only promise prefix filtering, the order is ours
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys, nil
}

// outdated backups beyond limit
func (h *History) outdated(ctx context.Context, limit int) ([]string, error) {
	keys, err := h.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) <= limit {
		return nil, nil
	}
	return keys[max(limit, 0):], nil
}

func (h *History) prune(ctx context.Context) error {
	keys, err := h.outdated(ctx, h.historyLimit)
	if err != nil {
		return err
	}
	for _, key := range keys {
		h.l.Debug("removing outdated snapshot", zap.String("key", key))
		if errDelete := h.storage.Delete(ctx, key); errDelete != nil {
			err = multierr.Append(err, errors.Wrap(errDelete, "could not remove "+key))
		}
	}
	return err
}
