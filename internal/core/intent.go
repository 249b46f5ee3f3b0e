package core

// IntentDecision is either a FunctionCall or a DirectReply.
type IntentDecision interface {
	isIntent()
}

// FunctionCall names a registered function and its argument.
type FunctionCall struct {
	Function string
	Argument string
}

// DirectReply holds model text that is not a valid function call.
type DirectReply struct {
	Text string
}

func (FunctionCall) isIntent() {}
func (DirectReply) isIntent()  {}
