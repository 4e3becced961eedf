package assistant

import "time"

// Thread is a conversation held by the service.
type Thread struct {
	ID        string
	CreatedAt time.Time
	Metadata  map[string]string
}

// MessageStatus is the status of a message snapshot.
type MessageStatus string

const (
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusIncomplete MessageStatus = "incomplete"
	MessageStatusCompleted  MessageStatus = "completed"
)

// Message is a message within a thread.
type Message struct {
	ID          string
	ThreadID    string
	Role        Role
	Content     []MessageContent
	Status      MessageStatus // empty for services that omit it
	AssistantID string        // set for assistant-authored messages
	RunID       string        // set when a run wrote the message
	CreatedAt   time.Time
	Metadata    map[string]string
}

// Text returns the concatenated text parts of the message.
func (m Message) Text() string {
	var out string
	for _, c := range m.Content {
		if t, ok := c.(TextContent); ok {
			out += t.Value
		}
	}
	return out
}

// MessageContent is a sealed interface over the content parts of a message.
type MessageContent interface {
	messageContent()
}

// TextContent is a text content part.
type TextContent struct {
	Value       string
	Annotations []Annotation
}

func (TextContent) messageContent() {}

// ImageFileContent references an image file.
type ImageFileContent struct {
	FileID string
}

func (ImageFileContent) messageContent() {}

// AnnotationType distinguishes file citations from generated file paths.
type AnnotationType string

const (
	AnnotationFileCitation AnnotationType = "file_citation"
	AnnotationFilePath     AnnotationType = "file_path"
)

// Annotation marks a span of TextContent that refers to a file.
type Annotation struct {
	Type       AnnotationType
	Text       string
	FileID     string
	Quote      string // file citations only
	StartIndex int
	EndIndex   int
}

// RunStepStatus is the status of a run step snapshot.
type RunStepStatus string

const (
	RunStepStatusInProgress RunStepStatus = "in_progress"
	RunStepStatusCancelled  RunStepStatus = "cancelled"
	RunStepStatusFailed     RunStepStatus = "failed"
	RunStepStatusCompleted  RunStepStatus = "completed"
	RunStepStatusExpired    RunStepStatus = "expired"
)

// RunStep is a snapshot of one step of a run.
type RunStep struct {
	ID        string
	RunID     string
	ThreadID  string
	Type      string // "message_creation" or "tool_calls"
	Status    RunStepStatus
	CreatedAt time.Time
}

// Interface compliance checks.
var (
	_ MessageContent = TextContent{}
	_ MessageContent = ImageFileContent{}
)
