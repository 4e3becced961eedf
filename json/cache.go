package json

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/assistant"
)

const (
	threadsFile    = "threads.json"
	messagesPrefix = "messages_"
	messagesGlob   = messagesPrefix + "*.json"
)

// Interface compliance check.
var _ assistant.Cache = (*Cache)(nil)

// Cache stores threads and messages under a directory. It is safe for
// concurrent use within one process.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// NewCache returns a Cache rooted at dir. The directory is created on the
// first write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// SaveThreads replaces the cached thread list.
func (c *Cache) SaveThreads(threads []assistant.Thread) error {
	data, err := MarshalThreads(threads)
	if err != nil {
		return fmt.Errorf("marshal threads: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeFile(filepath.Join(c.dir, threadsFile), data)
}

// Threads returns the cached thread list, or assistant.ErrNotFound if none
// was saved.
func (c *Cache) Threads() ([]assistant.Thread, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.threads()
}

func (c *Cache) threads() ([]assistant.Thread, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, threadsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("threads: %w", assistant.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read threads: %w", err)
	}
	return UnmarshalThreads(data)
}

// DeleteThread removes a thread from the cached list together with its
// messages. Deleting an unknown thread is not an error.
func (c *Cache) DeleteThread(threadID string) error {
	path, err := c.messagesPath(threadID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	threads, err := c.threads()
	switch {
	case errors.Is(err, assistant.ErrNotFound):
	case err != nil:
		return err
	default:
		kept := threads[:0]
		for _, t := range threads {
			if t.ID != threadID {
				kept = append(kept, t)
			}
		}
		data, err := MarshalThreads(kept)
		if err != nil {
			return fmt.Errorf("marshal threads: %w", err)
		}
		if err := writeFile(filepath.Join(c.dir, threadsFile), data); err != nil {
			return err
		}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove messages: %w", err)
	}
	return nil
}

// SaveMessages replaces the cached messages of a thread.
func (c *Cache) SaveMessages(threadID string, messages []assistant.Message) error {
	path, err := c.messagesPath(threadID)
	if err != nil {
		return err
	}
	data, err := MarshalMessages(threadID, messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeFile(path, data)
}

// Messages returns the cached messages of a thread, or assistant.ErrNotFound.
func (c *Cache) Messages(threadID string) ([]assistant.Message, error) {
	path, err := c.messagesPath(threadID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("messages of %s: %w", threadID, assistant.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	_, msgs, err := UnmarshalMessages(data)
	return msgs, err
}

// DeleteMessages removes the cached messages of a thread.
func (c *Cache) DeleteMessages(threadID string) error {
	path, err := c.messagesPath(threadID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove messages: %w", err)
	}
	return nil
}

// MessageThreads returns the IDs of threads with cached messages, sorted.
func (c *Cache) MessageThreads() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messageThreads()
}

func (c *Cache) messageThreads() ([]string, error) {
	if _, err := os.Stat(c.dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(c.dir), messagesGlob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list message files: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(m, messagesPrefix), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Prune removes cached messages of threads missing from the thread list and
// returns the IDs it removed.
func (c *Cache) Prune() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	known := map[string]bool{}
	threads, err := c.threads()
	if err != nil && !errors.Is(err, assistant.ErrNotFound) {
		return nil, err
	}
	for _, t := range threads {
		known[t.ID] = true
	}
	ids, err := c.messageThreads()
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, id := range ids {
		if known[id] {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, messagesPrefix+id+".json")); err != nil {
			return removed, fmt.Errorf("remove messages of %s: %w", id, err)
		}
		removed = append(removed, id)
	}
	return removed, nil
}

func (c *Cache) messagesPath(threadID string) (string, error) {
	if threadID == "" || strings.ContainsAny(threadID, `/\`) || threadID == "." || threadID == ".." {
		return "", fmt.Errorf("invalid thread id %q: %w", threadID, assistant.ErrValidation)
	}
	return filepath.Join(c.dir, messagesPrefix+threadID+".json"), nil
}
