package openai

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/assistant"
)

func missingField(field, path string) error {
	return &assistant.MissingFieldError{Field: field, Path: path}
}

func malformed(what string, err error) error {
	return &assistant.DecodeError{Description: "malformed " + what, Err: err}
}

func decodeMessageDelta(data []byte) (assistant.MessageDelta, error) {
	var raw apiMessageDelta
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.MessageDelta{}, malformed("message delta", err)
	}
	if raw.Delta == nil {
		return assistant.MessageDelta{}, missingField("delta", "$.delta")
	}
	md := assistant.MessageDelta{
		ID:     raw.ID,
		Object: raw.Object,
		Role:   assistant.Role(raw.Delta.Role),
	}
	for i, part := range raw.Delta.Content {
		c, err := decodeContentPartDelta(part, i, fmt.Sprintf("$.delta.content[%d]", i))
		if err != nil {
			return assistant.MessageDelta{}, err
		}
		md.Content = append(md.Content, c)
	}
	return md, nil
}

func decodeContentPartDelta(data json.RawMessage, pos int, path string) (assistant.MessageContentDelta, error) {
	var p apiContentPartDelta
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, malformed("content part at "+path, err)
	}
	if p.Type == nil {
		return nil, missingField("type", path+".type")
	}
	index := pos
	if p.Index != nil {
		index = *p.Index
	}
	switch *p.Type {
	case "text":
		if p.Text == nil {
			return nil, missingField("text", path+".text")
		}
		td := assistant.TextDelta{Index: index, Value: p.Text.Value}
		for i, a := range p.Text.Annotations {
			ann, err := decodeAnnotationDelta(a, i, fmt.Sprintf("%s.text.annotations[%d]", path, i))
			if err != nil {
				return nil, err
			}
			td.Annotations = append(td.Annotations, ann)
		}
		return td, nil
	case "image_file":
		if p.ImageFile == nil {
			return nil, missingField("image_file", path+".image_file")
		}
		if p.ImageFile.FileID == nil {
			return nil, missingField("file_id", path+".image_file.file_id")
		}
		return assistant.ImageFileDelta{Index: index, FileID: *p.ImageFile.FileID}, nil
	default:
		return nil, &assistant.DecodeError{Description: fmt.Sprintf("unknown content part type %q at %s", *p.Type, path)}
	}
}

func decodeAnnotationDelta(data json.RawMessage, pos int, path string) (assistant.AnnotationDelta, error) {
	var a apiAnnotation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, malformed("annotation at "+path, err)
	}
	if a.Type == nil {
		return nil, missingField("type", path+".type")
	}
	index := pos
	if a.Index != nil {
		index = *a.Index
	}
	switch *a.Type {
	case "file_citation":
		fc := assistant.FileCitationDelta{Index: index, Text: a.Text, StartIndex: a.StartIndex, EndIndex: a.EndIndex}
		if a.FileCitation != nil {
			fc.FileID = a.FileCitation.FileID
			fc.Quote = a.FileCitation.Quote
		}
		return fc, nil
	case "file_path":
		fp := assistant.FilePathDelta{Index: index, Text: a.Text, StartIndex: a.StartIndex, EndIndex: a.EndIndex}
		if a.FilePath != nil {
			fp.FileID = a.FilePath.FileID
		}
		return fp, nil
	default:
		return nil, &assistant.DecodeError{Description: fmt.Sprintf("unknown annotation type %q at %s", *a.Type, path)}
	}
}

func decodeRunStepDelta(data []byte) (assistant.RunStepDelta, error) {
	var raw apiRunStepDelta
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.RunStepDelta{}, malformed("run step delta", err)
	}
	if raw.Delta == nil {
		return assistant.RunStepDelta{}, missingField("delta", "$.delta")
	}
	sd := assistant.RunStepDelta{ID: raw.ID, Object: raw.Object}
	details := raw.Delta.StepDetails
	if details == nil {
		return sd, nil
	}
	if details.Type == nil {
		return assistant.RunStepDelta{}, missingField("type", "$.delta.step_details.type")
	}
	switch *details.Type {
	case "message_creation":
		mc := assistant.MessageCreationDelta{}
		if details.MessageCreation != nil {
			mc.MessageID = details.MessageCreation.MessageID
		}
		sd.StepDetails = mc
	case "tool_calls":
		tc := assistant.ToolCallsDelta{}
		for i, call := range details.ToolCalls {
			d := assistant.ToolCallDelta{Index: i, ID: call.ID, Type: call.Type}
			if call.Index != nil {
				d.Index = *call.Index
			}
			if call.Function != nil {
				d.Name = call.Function.Name
				d.Arguments = call.Function.Arguments
				if call.Function.Output != nil {
					d.Output = *call.Function.Output
				}
			}
			if call.CodeInterpreter != nil {
				d.Arguments = call.CodeInterpreter.Input
			}
			tc.ToolCalls = append(tc.ToolCalls, d)
		}
		sd.StepDetails = tc
	default:
		return assistant.RunStepDelta{}, &assistant.DecodeError{Description: fmt.Sprintf("unknown step details type %q", *details.Type)}
	}
	return sd, nil
}

func decodeRun(data []byte) (assistant.Run, error) {
	var raw apiRun
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.Run{}, malformed("run", err)
	}
	switch {
	case raw.ID == nil:
		return assistant.Run{}, missingField("id", "$.id")
	case raw.ThreadID == nil:
		return assistant.Run{}, missingField("thread_id", "$.thread_id")
	case raw.AssistantID == nil:
		return assistant.Run{}, missingField("assistant_id", "$.assistant_id")
	case raw.Status == nil:
		return assistant.Run{}, missingField("status", "$.status")
	}
	run := assistant.Run{
		ID:                  *raw.ID,
		Object:              raw.Object,
		ThreadID:            *raw.ThreadID,
		AssistantID:         *raw.AssistantID,
		Status:              assistant.RunStatus(*raw.Status),
		CreatedAt:           unixTime(raw.CreatedAt),
		StartedAt:           unixTime(raw.StartedAt),
		CompletedAt:         unixTime(raw.CompletedAt),
		CancelledAt:         unixTime(raw.CancelledAt),
		FailedAt:            unixTime(raw.FailedAt),
		ExpiresAt:           unixTime(raw.ExpiresAt),
		Model:               raw.Model,
		Instructions:        raw.Instructions,
		Temperature:         raw.Temperature,
		TopP:                raw.TopP,
		MaxPromptTokens:     raw.MaxPromptTokens,
		MaxCompletionTokens: raw.MaxCompletionTokens,
		Metadata:            raw.Metadata,
	}
	if ra := raw.RequiredAction; ra != nil {
		action := &assistant.RequiredAction{Type: ra.Type}
		if ra.SubmitToolOutputs != nil {
			for _, tc := range ra.SubmitToolOutputs.ToolCalls {
				args := tc.Function.Arguments
				if args == "" {
					args = "{}"
				}
				action.ToolCalls = append(action.ToolCalls, assistant.ToolCall{
					ID:        tc.ID,
					Type:      tc.Type,
					Name:      tc.Function.Name,
					Arguments: json.RawMessage(args),
				})
			}
		}
		run.RequiredAction = action
	}
	if raw.LastError != nil {
		run.LastError = &assistant.RunError{Code: raw.LastError.Code, Message: raw.LastError.Message}
	}
	if u := raw.Usage; u != nil {
		total := u.TotalTokens
		if total == 0 {
			total = u.PromptTokens + u.CompletionTokens
		}
		run.Usage = &assistant.Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      total,
		}
	}
	return run, nil
}

func decodeThread(data []byte) (assistant.Thread, error) {
	var raw apiThread
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.Thread{}, malformed("thread", err)
	}
	if raw.ID == nil {
		return assistant.Thread{}, missingField("id", "$.id")
	}
	return assistant.Thread{
		ID:        *raw.ID,
		CreatedAt: time.Unix(raw.CreatedAt, 0).UTC(),
		Metadata:  raw.Metadata,
	}, nil
}

func decodeMessage(data []byte) (assistant.Message, error) {
	return decodeMessageAt(data, "$")
}

func decodeMessageAt(data []byte, path string) (assistant.Message, error) {
	var raw apiMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.Message{}, malformed("message", err)
	}
	if raw.ID == nil {
		return assistant.Message{}, missingField("id", path+".id")
	}
	msg := assistant.Message{
		ID:          *raw.ID,
		ThreadID:    raw.ThreadID,
		Role:        assistant.Role(raw.Role),
		Status:      assistant.MessageStatus(raw.Status),
		AssistantID: raw.AssistantID,
		RunID:       raw.RunID,
		CreatedAt:   time.Unix(raw.CreatedAt, 0).UTC(),
		Metadata:    raw.Metadata,
	}
	for i, part := range raw.Content {
		partPath := fmt.Sprintf("%s.content[%d]", path, i)
		var p apiContentPart
		if err := json.Unmarshal(part, &p); err != nil {
			return assistant.Message{}, malformed("content part at "+partPath, err)
		}
		if p.Type == nil {
			return assistant.Message{}, missingField("type", partPath+".type")
		}
		switch *p.Type {
		case "text":
			if p.Text == nil {
				return assistant.Message{}, missingField("text", partPath+".text")
			}
			tc := assistant.TextContent{Value: p.Text.Value}
			for j, a := range p.Text.Annotations {
				ann, err := decodeAnnotationDelta(a, j, fmt.Sprintf("%s.text.annotations[%d]", partPath, j))
				if err != nil {
					return assistant.Message{}, err
				}
				tc.Annotations = append(tc.Annotations, annotationFromDelta(ann))
			}
			msg.Content = append(msg.Content, tc)
		case "image_file":
			if p.ImageFile == nil || p.ImageFile.FileID == nil {
				return assistant.Message{}, missingField("file_id", partPath+".image_file.file_id")
			}
			msg.Content = append(msg.Content, assistant.ImageFileContent{FileID: *p.ImageFile.FileID})
		default:
			return assistant.Message{}, &assistant.DecodeError{Description: fmt.Sprintf("unknown content part type %q at %s", *p.Type, partPath)}
		}
	}
	return msg, nil
}

func annotationFromDelta(a assistant.AnnotationDelta) assistant.Annotation {
	switch a := a.(type) {
	case assistant.FileCitationDelta:
		return assistant.Annotation{
			Type:       assistant.AnnotationFileCitation,
			Text:       a.Text,
			FileID:     a.FileID,
			Quote:      a.Quote,
			StartIndex: a.StartIndex,
			EndIndex:   a.EndIndex,
		}
	case assistant.FilePathDelta:
		return assistant.Annotation{
			Type:       assistant.AnnotationFilePath,
			Text:       a.Text,
			FileID:     a.FileID,
			StartIndex: a.StartIndex,
			EndIndex:   a.EndIndex,
		}
	default:
		return assistant.Annotation{}
	}
}

func decodeRunStep(data []byte) (assistant.RunStep, error) {
	var raw apiRunStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return assistant.RunStep{}, malformed("run step", err)
	}
	if raw.ID == nil {
		return assistant.RunStep{}, missingField("id", "$.id")
	}
	return assistant.RunStep{
		ID:        *raw.ID,
		RunID:     raw.RunID,
		ThreadID:  raw.ThreadID,
		Type:      raw.Type,
		Status:    assistant.RunStepStatus(raw.Status),
		CreatedAt: time.Unix(raw.CreatedAt, 0).UTC(),
	}, nil
}

// decodeInBandError converts an in-stream error frame into a StatusError.
func decodeInBandError(data []byte) error {
	var raw apiErrorResponse
	if err := json.Unmarshal(data, &raw); err != nil || raw.Error == nil {
		return &assistant.StatusError{Message: "stream error"}
	}
	return statusError(0, raw.Error)
}

func statusError(code int, e *apiError) *assistant.StatusError {
	return &assistant.StatusError{
		StatusCode: code,
		Message:    e.Message,
		Type:       e.Type,
		Param:      e.Param,
		Code:       e.Code,
	}
}

func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}
