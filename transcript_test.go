package assistant_test

import (
	"testing"
	"time"

	"github.com/fwojciec/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textDelta(id string, index int, value string) assistant.Event {
	return assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID:      id,
		Content: []assistant.MessageContentDelta{assistant.TextDelta{Index: index, Value: value}},
	}}
}

func TestTranscript_AccumulatesText(t *testing.T) {
	t.Parallel()

	tr := assistant.NewTranscript()
	assert.True(t, tr.Apply(textDelta("msg_1", 0, "Hel")))
	assert.True(t, tr.Apply(textDelta("msg_1", 0, "lo")))
	assert.False(t, tr.Apply(assistant.EventRunCompleted{}))

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "msg_1", msgs[0].ID)
	assert.Equal(t, assistant.RoleAssistant, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Text())
	assert.Equal(t, "Hello", tr.Text("msg_1"))
	assert.Equal(t, "", tr.Text("msg_2"))
}

func TestTranscript_OrdersPartsAndMessages(t *testing.T) {
	t.Parallel()

	tr := assistant.NewTranscript()
	tr.Apply(textDelta("msg_b", 1, "second"))
	tr.Apply(assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID:      "msg_b",
		Content: []assistant.MessageContentDelta{assistant.ImageFileDelta{Index: 0, FileID: "file_img"}},
	}})
	tr.Apply(textDelta("msg_a", 0, "other"))

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "msg_b", msgs[0].ID)
	assert.Equal(t, "msg_a", msgs[1].ID)
	require.Len(t, msgs[0].Content, 2)
	assert.Equal(t, assistant.ImageFileContent{FileID: "file_img"}, msgs[0].Content[0])
	assert.Equal(t, assistant.TextContent{Value: "second"}, msgs[0].Content[1])
}

func TestTranscript_MergesAnnotations(t *testing.T) {
	t.Parallel()

	tr := assistant.NewTranscript()
	tr.Apply(assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID: "msg_1",
		Content: []assistant.MessageContentDelta{assistant.TextDelta{
			Index: 0,
			Value: "See [1]",
			Annotations: []assistant.AnnotationDelta{
				assistant.FileCitationDelta{Index: 0, Text: "[1]", FileID: "file_a", StartIndex: 4, EndIndex: 7},
			},
		}},
	}})
	tr.Apply(assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID: "msg_1",
		Content: []assistant.MessageContentDelta{assistant.TextDelta{
			Index: 0,
			Annotations: []assistant.AnnotationDelta{
				assistant.FileCitationDelta{Index: 0, Quote: "quoted"},
				assistant.FilePathDelta{Index: 1, Text: "out.csv", FileID: "file_b"},
			},
		}},
	}})

	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	text, ok := msgs[0].Content[0].(assistant.TextContent)
	require.True(t, ok)
	assert.Equal(t, "See [1]", text.Value)
	assert.Equal(t, []assistant.Annotation{
		{Type: assistant.AnnotationFileCitation, Text: "[1]", FileID: "file_a", Quote: "quoted", StartIndex: 4, EndIndex: 7},
		{Type: assistant.AnnotationFilePath, Text: "out.csv", FileID: "file_b"},
	}, text.Annotations)
}

func TestTranscript_Message(t *testing.T) {
	t.Parallel()
	tr := assistant.NewTranscript()

	_, ok := tr.Message("msg_1")
	assert.False(t, ok)

	tr.Apply(assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID:      "msg_1",
		Content: []assistant.MessageContentDelta{assistant.ImageFileDelta{Index: 1, FileID: "file_img"}, assistant.TextDelta{Index: 0, Value: "chart:"}},
	}})

	msg, ok := tr.Message("msg_1")
	require.True(t, ok)
	assert.Equal(t, assistant.RoleAssistant, msg.Role)
	assert.Equal(t, []assistant.MessageContent{
		assistant.TextContent{Value: "chart:"},
		assistant.ImageFileContent{FileID: "file_img"},
	}, msg.Content)
}

func TestTranscript_SparseIndexes(t *testing.T) {
	t.Parallel()

	tr := assistant.NewTranscript()
	tr.Apply(textDelta("msg_1", 1<<31, "far"))
	tr.Apply(textDelta("msg_1", -1, "before"))
	tr.Apply(textDelta("msg_1", 0, " mid "))
	tr.Apply(assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID: "msg_1",
		Content: []assistant.MessageContentDelta{assistant.TextDelta{
			Index: 0,
			Annotations: []assistant.AnnotationDelta{
				assistant.FilePathDelta{Index: 1 << 30, Text: "b", FileID: "file_b"},
				assistant.FilePathDelta{Index: -5, Text: "a", FileID: "file_a"},
			},
		}},
	}})

	done := make(chan assistant.Message, 1)
	go func() {
		msg, _ := tr.Message("msg_1")
		done <- msg
	}()
	var msg assistant.Message
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		t.Fatal("assembling a message with sparse indexes did not return")
	}

	assert.Equal(t, "before mid far", msg.Text())
	assert.Equal(t, "before mid far", tr.Text("msg_1"))
	require.Len(t, msg.Content, 3)
	mid, ok := msg.Content[1].(assistant.TextContent)
	require.True(t, ok)
	require.Len(t, mid.Annotations, 2)
	assert.Equal(t, "file_a", mid.Annotations[0].FileID)
	assert.Equal(t, "file_b", mid.Annotations[1].FileID)
}
