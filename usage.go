package assistant

// Usage tracks the tokens a run consumed. The service reports it once the
// run reaches a terminal status; earlier snapshots carry no usage.
//
// Invariant: TotalTokens = PromptTokens + CompletionTokens. Decoders keep the
// service's TotalTokens when present and derive it otherwise.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
