package mock

import "github.com/fwojciec/assistant"

// Interface compliance check.
var _ assistant.Cache = (*Cache)(nil)

// Cache is a test double for assistant.Cache.
type Cache struct {
	SaveThreadsFn    func(threads []assistant.Thread) error
	ThreadsFn        func() ([]assistant.Thread, error)
	DeleteThreadFn   func(threadID string) error
	SaveMessagesFn   func(threadID string, messages []assistant.Message) error
	MessagesFn       func(threadID string) ([]assistant.Message, error)
	DeleteMessagesFn func(threadID string) error
}

// SaveThreads delegates to SaveThreadsFn.
func (c *Cache) SaveThreads(threads []assistant.Thread) error {
	return c.SaveThreadsFn(threads)
}

// Threads delegates to ThreadsFn.
func (c *Cache) Threads() ([]assistant.Thread, error) {
	return c.ThreadsFn()
}

// DeleteThread delegates to DeleteThreadFn.
func (c *Cache) DeleteThread(threadID string) error {
	return c.DeleteThreadFn(threadID)
}

// SaveMessages delegates to SaveMessagesFn.
func (c *Cache) SaveMessages(threadID string, messages []assistant.Message) error {
	return c.SaveMessagesFn(threadID, messages)
}

// Messages delegates to MessagesFn.
func (c *Cache) Messages(threadID string) ([]assistant.Message, error) {
	return c.MessagesFn(threadID)
}

// DeleteMessages delegates to DeleteMessagesFn.
func (c *Cache) DeleteMessages(threadID string) error {
	return c.DeleteMessagesFn(threadID)
}
