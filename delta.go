package assistant

// MessageDelta is an incremental fragment of a message being written by a
// run. Deltas are never complete on their own; consumers accumulate them
// (see Transcript).
type MessageDelta struct {
	ID     string
	Object string
	Role   Role
	// Content holds the fragments carried by this delta, keyed by Index.
	Content []MessageContentDelta
}

// MessageContentDelta is a sealed interface over the fragment kinds of a
// message content part. The unexported marker method prevents external
// implementations.
type MessageContentDelta interface {
	messageContentDelta()
}

// TextDelta is a fragment of the text content part at Index.
type TextDelta struct {
	Index       int
	Value       string
	Annotations []AnnotationDelta
}

func (TextDelta) messageContentDelta() {}

// ImageFileDelta references an image file for the content part at Index.
type ImageFileDelta struct {
	Index  int
	FileID string
}

func (ImageFileDelta) messageContentDelta() {}

// AnnotationDelta is a sealed interface over text annotation fragments.
type AnnotationDelta interface {
	annotationDelta()
}

// FileCitationDelta points to a quote from a file used by a retrieval tool.
// Text is the span of message text the citation replaces.
type FileCitationDelta struct {
	Index      int
	Text       string
	FileID     string
	Quote      string
	StartIndex int
	EndIndex   int
}

func (FileCitationDelta) annotationDelta() {}

// FilePathDelta points to a file generated by the code interpreter tool.
type FilePathDelta struct {
	Index      int
	Text       string
	FileID     string
	StartIndex int
	EndIndex   int
}

func (FilePathDelta) annotationDelta() {}

// RunStepDelta is an incremental fragment of a run step, e.g. the progress of
// a tool invocation. It parallels MessageDelta.
type RunStepDelta struct {
	ID          string
	Object      string
	StepDetails StepDetailsDelta // nil when the fragment carries no details
}

// StepDetailsDelta is a sealed interface over run step detail fragments.
type StepDetailsDelta interface {
	stepDetailsDelta()
}

// MessageCreationDelta reports the message a step is writing.
type MessageCreationDelta struct {
	MessageID string
}

func (MessageCreationDelta) stepDetailsDelta() {}

// ToolCallsDelta carries fragments of the tool calls made by a step.
type ToolCallsDelta struct {
	ToolCalls []ToolCallDelta
}

func (ToolCallsDelta) stepDetailsDelta() {}

// ToolCallDelta is a fragment of one tool call. ID, Type and Name usually
// arrive on the first fragment for an Index; Arguments and Output arrive in
// pieces.
type ToolCallDelta struct {
	Index     int
	ID        string
	Type      string
	Name      string
	Arguments string
	Output    string
}

// Interface compliance checks.
var (
	_ MessageContentDelta = TextDelta{}
	_ MessageContentDelta = ImageFileDelta{}

	_ AnnotationDelta = FileCitationDelta{}
	_ AnnotationDelta = FilePathDelta{}

	_ StepDetailsDelta = MessageCreationDelta{}
	_ StepDetailsDelta = ToolCallsDelta{}
)
