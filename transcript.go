package assistant

import (
	"maps"
	"slices"
	"strings"
)

// Transcript assembles message deltas into messages. The stream delivers
// fragments only; consumers that need whole messages feed every event to
// Apply and read Messages.
//
// A Transcript is not safe for concurrent use.
type Transcript struct {
	order    []string
	messages map[string]*partialMessage
}

type partialMessage struct {
	role  Role
	parts map[int]*partialPart
}

type partialPart struct {
	kind        string // "text" or "image_file"
	text        strings.Builder
	fileID      string
	annotations map[int]*Annotation
}

// NewTranscript returns an empty Transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make(map[string]*partialMessage)}
}

// Apply folds evt into the transcript. It reports whether evt changed the
// transcript; events other than EventMessageDelta are ignored.
func (t *Transcript) Apply(evt Event) bool {
	e, ok := evt.(EventMessageDelta)
	if !ok {
		return false
	}
	d := e.Delta
	pm := t.messages[d.ID]
	if pm == nil {
		pm = &partialMessage{role: RoleAssistant, parts: make(map[int]*partialPart)}
		t.messages[d.ID] = pm
		t.order = append(t.order, d.ID)
	}
	if d.Role != "" {
		pm.role = d.Role
	}
	for _, c := range d.Content {
		switch c := c.(type) {
		case TextDelta:
			p := pm.part(c.Index, "text")
			p.text.WriteString(c.Value)
			for _, a := range c.Annotations {
				p.applyAnnotation(a)
			}
		case ImageFileDelta:
			p := pm.part(c.Index, "image_file")
			p.fileID = c.FileID
		}
	}
	return true
}

func (pm *partialMessage) part(index int, kind string) *partialPart {
	p := pm.parts[index]
	if p == nil {
		p = &partialPart{kind: kind, annotations: make(map[int]*Annotation)}
		pm.parts[index] = p
	}
	return p
}

func (p *partialPart) applyAnnotation(a AnnotationDelta) {
	switch a := a.(type) {
	case FileCitationDelta:
		ann := p.annotation(a.Index, AnnotationFileCitation)
		ann.Text += a.Text
		if a.FileID != "" {
			ann.FileID = a.FileID
		}
		ann.Quote += a.Quote
		if a.StartIndex != 0 || a.EndIndex != 0 {
			ann.StartIndex, ann.EndIndex = a.StartIndex, a.EndIndex
		}
	case FilePathDelta:
		ann := p.annotation(a.Index, AnnotationFilePath)
		ann.Text += a.Text
		if a.FileID != "" {
			ann.FileID = a.FileID
		}
		if a.StartIndex != 0 || a.EndIndex != 0 {
			ann.StartIndex, ann.EndIndex = a.StartIndex, a.EndIndex
		}
	}
}

func (p *partialPart) annotation(index int, typ AnnotationType) *Annotation {
	ann := p.annotations[index]
	if ann == nil {
		ann = &Annotation{Type: typ}
		p.annotations[index] = ann
	}
	return ann
}

// Messages returns the assembled messages in the order their first delta
// arrived. Content parts are ordered by index; gaps are skipped.
func (t *Transcript) Messages() []Message {
	out := make([]Message, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.messages[id].message(id))
	}
	return out
}

// Message returns the assembled message with the given ID.
func (t *Transcript) Message(id string) (Message, bool) {
	pm := t.messages[id]
	if pm == nil {
		return Message{}, false
	}
	return pm.message(id), true
}

func (pm *partialMessage) message(id string) Message {
	msg := Message{ID: id, Role: pm.role}
	for _, i := range slices.Sorted(maps.Keys(pm.parts)) {
		p := pm.parts[i]
		switch p.kind {
		case "text":
			msg.Content = append(msg.Content, TextContent{Value: p.text.String(), Annotations: p.sortedAnnotations()})
		case "image_file":
			msg.Content = append(msg.Content, ImageFileContent{FileID: p.fileID})
		}
	}
	return msg
}

// Text returns the text of the message with the given ID, or "" if no delta
// for it was applied.
func (t *Transcript) Text(messageID string) string {
	pm := t.messages[messageID]
	if pm == nil {
		return ""
	}
	var b strings.Builder
	for _, i := range slices.Sorted(maps.Keys(pm.parts)) {
		if p := pm.parts[i]; p.kind == "text" {
			b.WriteString(p.text.String())
		}
	}
	return b.String()
}

func (p *partialPart) sortedAnnotations() []Annotation {
	if len(p.annotations) == 0 {
		return nil
	}
	out := make([]Annotation, 0, len(p.annotations))
	for _, i := range slices.Sorted(maps.Keys(p.annotations)) {
		out = append(out, *p.annotations[i])
	}
	return out
}
