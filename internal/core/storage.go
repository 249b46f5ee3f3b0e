package core

import "context"

// HistoryRepository persists the conversation log. Load returns the full
// log; Append adds turns and rewrites the stored log.
type HistoryRepository interface {
	Load(ctx context.Context) ([]Message, error)
	Append(ctx context.Context, msgs ...Message) error
	Clear(ctx context.Context) error
}
