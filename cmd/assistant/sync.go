package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/fwojciec/assistant"
)

var threadMetadata = map[string]string{"client": "assistant-cli"}

// openThread retrieves threadID, or creates a thread when it is empty, and
// records it in the cached thread list.
func openThread(ctx context.Context, threads assistant.ThreadService, cache assistant.Cache, threadID string) (assistant.Thread, error) {
	var (
		t   assistant.Thread
		err error
	)
	if threadID == "" {
		t, err = threads.CreateThread(ctx, threadMetadata)
	} else {
		t, err = threads.RetrieveThread(ctx, threadID)
	}
	if err != nil {
		return assistant.Thread{}, fmt.Errorf("open thread: %w", err)
	}

	cached, err := cache.Threads()
	if err != nil && !errors.Is(err, assistant.ErrNotFound) {
		return assistant.Thread{}, fmt.Errorf("read cached threads: %w", err)
	}
	cached = slices.DeleteFunc(cached, func(c assistant.Thread) bool { return c.ID == t.ID })
	if err := cache.SaveThreads(append(cached, t)); err != nil {
		return assistant.Thread{}, fmt.Errorf("cache threads: %w", err)
	}
	return t, nil
}

// syncMessages brings the cached messages of threadID up to date by paging
// forward from the newest settled cached message, and returns the full
// history in chronological order. Messages cached while still in progress,
// and everything after them, are fetched again.
func syncMessages(ctx context.Context, threads assistant.ThreadService, cache assistant.Cache, threadID string, logger *slog.Logger) ([]assistant.Message, error) {
	history, err := cache.Messages(threadID)
	if err != nil && !errors.Is(err, assistant.ErrNotFound) {
		return nil, fmt.Errorf("read cached messages: %w", err)
	}

	stale := slices.IndexFunc(history, func(m assistant.Message) bool {
		return m.Status == assistant.MessageStatusInProgress
	})
	dirty := stale >= 0
	if dirty {
		logger.DebugContext(ctx, "refetching unsettled messages", "thread", threadID, "from", history[stale].ID)
		history = history[:stale]
	}

	var after string
	if n := len(history); n > 0 {
		after = history[n-1].ID
	}
	fetched := 0
	for {
		page, err := threads.ListMessages(ctx, threadID, assistant.ListParams{
			Limit: assistant.DefaultListLimit,
			Order: assistant.OrderAsc,
			After: after,
		})
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		history = append(history, page...)
		fetched += len(page)
		if len(page) < assistant.DefaultListLimit {
			break
		}
		after = page[len(page)-1].ID
	}
	logger.DebugContext(ctx, "messages synced", "thread", threadID, "fetched", fetched, "total", len(history))

	if fetched > 0 || dirty {
		if err := cache.SaveMessages(threadID, history); err != nil {
			return nil, fmt.Errorf("cache messages: %w", err)
		}
	}
	return history, nil
}
