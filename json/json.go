// Package json implements [assistant.Cache] as JSON files in a directory.
//
// Threads are kept in threads.json; the messages of each thread in
// messages_<thread id>.json. Files are written atomically through a temporary
// file and rename.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/assistant"
)

const envelopeVersion = 1

// threadsEnvelope is the v1 wire format of threads.json.
type threadsEnvelope struct {
	Version int         `json:"version"`
	Threads []threadDTO `json:"threads"`
}

type threadDTO struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// messagesEnvelope is the v1 wire format of a messages file.
type messagesEnvelope struct {
	Version  int          `json:"version"`
	ThreadID string       `json:"thread_id"`
	Messages []messageDTO `json:"messages"`
}

type messageDTO struct {
	ID          string            `json:"id"`
	ThreadID    string            `json:"thread_id"`
	Role        string            `json:"role"`
	Content     []contentDTO      `json:"content"`
	Status      string            `json:"status,omitempty"`
	AssistantID string            `json:"assistant_id,omitempty"`
	RunID       string            `json:"run_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// contentDTO is the JSON representation of a MessageContent with a type
// discriminator.
type contentDTO struct {
	Type        string          `json:"type"`
	Text        *string         `json:"text,omitempty"`
	Annotations []annotationDTO `json:"annotations,omitempty"`
	FileID      *string         `json:"file_id,omitempty"`
}

type annotationDTO struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	FileID     string `json:"file_id"`
	Quote      string `json:"quote,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// MarshalThreads serializes threads in v1 envelope format.
func MarshalThreads(threads []assistant.Thread) ([]byte, error) {
	env := threadsEnvelope{Version: envelopeVersion, Threads: make([]threadDTO, len(threads))}
	for i, t := range threads {
		env.Threads[i] = threadDTO{ID: t.ID, CreatedAt: t.CreatedAt, Metadata: t.Metadata}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalThreads deserializes threads from v1 envelope format.
func UnmarshalThreads(data []byte) ([]assistant.Thread, error) {
	var env threadsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	threads := make([]assistant.Thread, len(env.Threads))
	for i, t := range env.Threads {
		threads[i] = assistant.Thread{ID: t.ID, CreatedAt: t.CreatedAt, Metadata: t.Metadata}
	}
	return threads, nil
}

// MarshalMessages serializes the messages of one thread in v1 envelope format.
func MarshalMessages(threadID string, messages []assistant.Message) ([]byte, error) {
	env := messagesEnvelope{
		Version:  envelopeVersion,
		ThreadID: threadID,
		Messages: make([]messageDTO, len(messages)),
	}
	for i, m := range messages {
		content, err := marshalContent(m.Content)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = messageDTO{
			ID:          m.ID,
			ThreadID:    m.ThreadID,
			Role:        string(m.Role),
			Content:     content,
			Status:      string(m.Status),
			AssistantID: m.AssistantID,
			RunID:       m.RunID,
			CreatedAt:   m.CreatedAt,
			Metadata:    m.Metadata,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalMessages deserializes messages from v1 envelope format and returns
// the thread ID recorded in the envelope.
func UnmarshalMessages(data []byte) (string, []assistant.Message, error) {
	var env messagesEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return "", nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]assistant.Message, len(env.Messages))
	for i, dto := range env.Messages {
		content, err := unmarshalContent(dto.Content)
		if err != nil {
			return "", nil, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = assistant.Message{
			ID:          dto.ID,
			ThreadID:    dto.ThreadID,
			Role:        assistant.Role(dto.Role),
			Content:     content,
			Status:      assistant.MessageStatus(dto.Status),
			AssistantID: dto.AssistantID,
			RunID:       dto.RunID,
			CreatedAt:   dto.CreatedAt,
			Metadata:    dto.Metadata,
		}
	}
	return env.ThreadID, msgs, nil
}

func marshalContent(parts []assistant.MessageContent) ([]contentDTO, error) {
	result := make([]contentDTO, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case assistant.TextContent:
			dto := contentDTO{Type: "text", Text: &v.Value}
			for _, a := range v.Annotations {
				dto.Annotations = append(dto.Annotations, annotationDTO{
					Type:       string(a.Type),
					Text:       a.Text,
					FileID:     a.FileID,
					Quote:      a.Quote,
					StartIndex: a.StartIndex,
					EndIndex:   a.EndIndex,
				})
			}
			result[i] = dto
		case assistant.ImageFileContent:
			result[i] = contentDTO{Type: "image_file", FileID: &v.FileID}
		default:
			return nil, fmt.Errorf("content part %d: unknown type %T", i, p)
		}
	}
	return result, nil
}

func unmarshalContent(dtos []contentDTO) ([]assistant.MessageContent, error) {
	result := make([]assistant.MessageContent, len(dtos))
	for i, dto := range dtos {
		switch dto.Type {
		case "text":
			if dto.Text == nil {
				return nil, fmt.Errorf("content part %d: text part missing text", i)
			}
			tc := assistant.TextContent{Value: *dto.Text}
			for _, a := range dto.Annotations {
				tc.Annotations = append(tc.Annotations, assistant.Annotation{
					Type:       assistant.AnnotationType(a.Type),
					Text:       a.Text,
					FileID:     a.FileID,
					Quote:      a.Quote,
					StartIndex: a.StartIndex,
					EndIndex:   a.EndIndex,
				})
			}
			result[i] = tc
		case "image_file":
			if dto.FileID == nil {
				return nil, fmt.Errorf("content part %d: image part missing file_id", i)
			}
			result[i] = assistant.ImageFileContent{FileID: *dto.FileID}
		default:
			return nil, fmt.Errorf("content part %d: unknown type %q", i, dto.Type)
		}
	}
	return result, nil
}

// writeFile writes data to path atomically, creating parent directories as
// needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
