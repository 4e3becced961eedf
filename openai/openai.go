// Package openai implements [assistant.RunService] and
// [assistant.ThreadService] for the OpenAI Assistants API.
//
// One-shot operations are plain JSON request/response. Runs are observed
// through Server-Sent Events: a producer goroutine tokenizes the response
// body into data frames, classifies each frame by its "object" field,
// decodes it strictly and publishes typed events on the [assistant.Stream].
package openai

import "encoding/json"

const (
	defaultBaseURL = "https://api.openai.com"
	defaultVersion = "v1"
	defaultBeta    = "assistants=v2"
)

// Wire types. Fields the decoder requires are pointers so that absence (or
// null) can be told apart from a zero value.

type apiErrorResponse struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    string `json:"code"`
}

type apiMessageDelta struct {
	ID     string                `json:"id"`
	Object string                `json:"object"`
	Delta  *apiMessageDeltaInner `json:"delta"`
}

type apiMessageDeltaInner struct {
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

type apiContentPartDelta struct {
	Index     *int               `json:"index"`
	Type      *string            `json:"type"`
	Text      *apiTextDelta      `json:"text"`
	ImageFile *apiImageFileDelta `json:"image_file"`
}

type apiTextDelta struct {
	Value       string            `json:"value"`
	Annotations []json.RawMessage `json:"annotations"`
}

type apiImageFileDelta struct {
	FileID *string `json:"file_id"`
}

type apiAnnotation struct {
	Index        *int             `json:"index"`
	Type         *string          `json:"type"`
	Text         string           `json:"text"`
	FileCitation *apiFileCitation `json:"file_citation"`
	FilePath     *apiFilePath     `json:"file_path"`
	StartIndex   int              `json:"start_index"`
	EndIndex     int              `json:"end_index"`
}

type apiFileCitation struct {
	FileID string `json:"file_id"`
	Quote  string `json:"quote"`
}

type apiFilePath struct {
	FileID string `json:"file_id"`
}

type apiRunStepDelta struct {
	ID     string                `json:"id"`
	Object string                `json:"object"`
	Delta  *apiRunStepDeltaInner `json:"delta"`
}

type apiRunStepDeltaInner struct {
	StepDetails *apiStepDetails `json:"step_details"`
}

type apiStepDetails struct {
	Type            *string             `json:"type"`
	MessageCreation *apiMessageCreation `json:"message_creation"`
	ToolCalls       []apiToolCallDelta  `json:"tool_calls"`
}

type apiMessageCreation struct {
	MessageID string `json:"message_id"`
}

type apiToolCallDelta struct {
	Index           *int                `json:"index"`
	ID              string              `json:"id"`
	Type            string              `json:"type"`
	Function        *apiFunctionDelta   `json:"function"`
	CodeInterpreter *apiCodeInterpreter `json:"code_interpreter"`
}

type apiFunctionDelta struct {
	Name      string  `json:"name"`
	Arguments string  `json:"arguments"`
	Output    *string `json:"output"`
}

type apiCodeInterpreter struct {
	Input string `json:"input"`
}

type apiRun struct {
	ID                  *string            `json:"id"`
	Object              string             `json:"object"`
	ThreadID            *string            `json:"thread_id"`
	AssistantID         *string            `json:"assistant_id"`
	Status              *string            `json:"status"`
	RequiredAction      *apiRequiredAction `json:"required_action"`
	LastError           *apiRunError       `json:"last_error"`
	CreatedAt           *int64             `json:"created_at"`
	StartedAt           *int64             `json:"started_at"`
	CompletedAt         *int64             `json:"completed_at"`
	CancelledAt         *int64             `json:"cancelled_at"`
	FailedAt            *int64             `json:"failed_at"`
	ExpiresAt           *int64             `json:"expires_at"`
	Model               string             `json:"model"`
	Instructions        string             `json:"instructions"`
	Temperature         *float64           `json:"temperature"`
	TopP                *float64           `json:"top_p"`
	MaxPromptTokens     *int               `json:"max_prompt_tokens"`
	MaxCompletionTokens *int               `json:"max_completion_tokens"`
	Metadata            map[string]string  `json:"metadata"`
	Usage               *apiUsage          `json:"usage"`
}

type apiRequiredAction struct {
	Type              string `json:"type"`
	SubmitToolOutputs *struct {
		ToolCalls []apiToolCall `json:"tool_calls"`
	} `json:"submit_tool_outputs"`
}

type apiToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type apiRunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type apiThread struct {
	ID        *string           `json:"id"`
	Object    string            `json:"object"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata"`
}

type apiMessage struct {
	ID          *string           `json:"id"`
	Object      string            `json:"object"`
	ThreadID    string            `json:"thread_id"`
	Role        string            `json:"role"`
	Content     []json.RawMessage `json:"content"`
	Status      string            `json:"status"`
	AssistantID string            `json:"assistant_id"`
	RunID       string            `json:"run_id"`
	CreatedAt   int64             `json:"created_at"`
	Metadata    map[string]string `json:"metadata"`
}

type apiContentPart struct {
	Type      *string `json:"type"`
	Text      *struct {
		Value       string            `json:"value"`
		Annotations []json.RawMessage `json:"annotations"`
	} `json:"text"`
	ImageFile *apiImageFileDelta `json:"image_file"`
}

type apiMessageList struct {
	Data    []json.RawMessage `json:"data"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
	HasMore bool              `json:"has_more"`
}

type apiRunStep struct {
	ID        *string `json:"id"`
	Object    string  `json:"object"`
	RunID     string  `json:"run_id"`
	ThreadID  string  `json:"thread_id"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	CreatedAt int64   `json:"created_at"`
}

type apiDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Request bodies.

type apiCreateThreadRequest struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

type apiCreateMessageRequest struct {
	Role     string            `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type apiCreateRunRequest struct {
	AssistantID            string            `json:"assistant_id"`
	Model                  string            `json:"model,omitempty"`
	Instructions           string            `json:"instructions,omitempty"`
	AdditionalInstructions string            `json:"additional_instructions,omitempty"`
	Temperature            *float64          `json:"temperature,omitempty"`
	TopP                   *float64          `json:"top_p,omitempty"`
	MaxPromptTokens        int               `json:"max_prompt_tokens,omitempty"`
	MaxCompletionTokens    int               `json:"max_completion_tokens,omitempty"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	Tools                  []apiTool         `json:"tools,omitempty"`
	Stream                 bool              `json:"stream"`
}

type apiTool struct {
	Type     string          `json:"type"`
	Function apiFunctionTool `json:"function"`
}

type apiFunctionTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type apiSubmitToolOutputsRequest struct {
	ToolOutputs []apiToolOutput `json:"tool_outputs"`
	Stream      bool            `json:"stream"`
}

type apiToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}
