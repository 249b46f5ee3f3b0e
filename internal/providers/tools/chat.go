package tools

import "context"

// Conversation is the fallback responder seen from the collaborator side.
type Conversation interface {
	Reply(ctx context.Context, utterance string) string
	SearchReply(ctx context.Context, query string) string
}

type Chat struct {
	conv Conversation
}

func NewChat(c Conversation) *Chat {
	return &Chat{conv: c}
}

func (c *Chat) Chat(ctx context.Context, query string) string {
	return c.conv.Reply(ctx, query)
}

func (c *Chat) RealtimeSearch(ctx context.Context, query string) string {
	return c.conv.SearchReply(ctx, query)
}
