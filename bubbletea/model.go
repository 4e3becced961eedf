package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/assistant"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the assistant TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	run    AgentFunc
	theme  assistant.Theme
	styles Styles

	blocks     []MessageBlock
	blockFocus int // index of focused tool call block (-1 = none)

	// Streamed fragments of the current run, keyed for correlation.
	transcript *assistant.Transcript
	activeText map[string]*AssistantTextBlock // keyed by message ID
	activeTool map[string]*ToolCallBlock      // keyed by step ID and call index

	status assistant.RunStatus
	usage  *assistant.Usage

	running bool
	cancel  context.CancelFunc
	eventCh chan assistant.Event
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model. history holds the thread's existing messages
// in chronological order.
func New(run AgentFunc, history []assistant.Message, theme assistant.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the assistant..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:      ti,
		run:        run,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
	}
	m = m.resetTurn()
	return m.renderHistory(history)
}

// Running returns whether a run is in progress.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case AgentDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m = m.updateBlockFocus()
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	const chrome = 4 // input, status line, two separators
	vpHeight := max(msg.Height-chrome, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
		}
		return m, nil
	}

	if m.running {
		return m, nil
	}
	// Character keys go to the input only; 'j' and 'k' are both text and
	// viewport scroll keys.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.usage = nil
	m.status = ""

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m = m.resetTurn()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan assistant.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true
	m.Input.Blur()

	return m, tea.Batch(
		startAgent(ctx, m.run, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) resetTurn() Model {
	m.transcript = assistant.NewTranscript()
	m.activeText = make(map[string]*AssistantTextBlock)
	m.activeTool = make(map[string]*ToolCallBlock)
	return m
}

// renderHistory creates blocks from existing thread messages.
func (m Model) renderHistory(history []assistant.Message) Model {
	for _, msg := range history {
		switch msg.Role {
		case assistant.RoleUser:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Text(), m.styles))
		default:
			b := NewAssistantTextBlock(m.theme, m.styles)
			b.SetContent(msg.Content)
			m.blocks = append(m.blocks, b)
		}
	}
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString(blockSeparator(m.blocks[i-1], block))
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processEvent routes a streaming event to the block it belongs to.
func (m Model) processEvent(evt assistant.Event) Model {
	if run, ok := assistant.RunOf(evt); ok {
		m.status = run.Status
		if run.Usage != nil {
			m.usage = run.Usage
		}
	}

	switch e := evt.(type) {
	case assistant.EventMessageDelta:
		m.transcript.Apply(e)
		msg, _ := m.transcript.Message(e.Delta.ID)
		b, ok := m.activeText[e.Delta.ID]
		if !ok {
			b = NewAssistantTextBlock(m.theme, m.styles)
			m.blocks = append(m.blocks, b)
			m.activeText[e.Delta.ID] = b
		}
		b.SetContent(msg.Content)

	case assistant.EventRunStepDelta:
		calls, ok := e.Delta.StepDetails.(assistant.ToolCallsDelta)
		if !ok {
			break
		}
		for _, tc := range calls.ToolCalls {
			key := fmt.Sprintf("%s/%d", e.Delta.ID, tc.Index)
			b, ok := m.activeTool[key]
			if !ok {
				b = NewToolCallBlock("", "", m.styles)
				m.blocks = append(m.blocks, b)
				m.activeTool[key] = b
				m = m.updateBlockFocus()
			}
			b.Apply(tc)
		}

	case assistant.EventRunFailed:
		msg := "run failed"
		if e.Run.LastError != nil {
			msg = "run failed: " + e.Run.LastError.String()
		}
		m.blocks = append(m.blocks, NewErrorBlock(errors.New(msg), m.styles))

	case assistant.EventRunExpired:
		m.blocks = append(m.blocks, NewErrorBlock(errors.New("run expired"), m.styles))
	}
	return m
}

// updateBlockFocus focuses the last tool call block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*ToolCallBlock); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous tool call block, wrapping
// around.
func (m Model) cycleFocusPrev() Model {
	n := len(m.blocks)
	start := m.blockFocus - 1
	if start < 0 {
		start = n - 1
	}
	for i := range n {
		idx := (start - i + n) % n
		if _, ok := m.blocks[idx].(*ToolCallBlock); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	var line string
	style := m.styles.Muted
	switch {
	case m.err != nil:
		line, style = "Error: "+m.err.Error(), m.styles.Error
	case m.running && m.status == assistant.RunStatusRequiresAction:
		line = "Running tools..."
	case m.running && m.status != "":
		line = "Run " + strings.ReplaceAll(string(m.status), "_", " ") + "..."
	case m.running:
		line = "Starting run..."
	default:
		line = "Enter to send, Ctrl+C to quit"
		if m.usage != nil {
			line = fmt.Sprintf("%d tokens (%d prompt, %d completion) | %s",
				m.usage.TotalTokens, m.usage.PromptTokens, m.usage.CompletionTokens, line)
		}
	}
	if w := m.Viewport.Width; w > 0 {
		line = runewidth.Truncate(line, w, "…")
	}
	return style.Render(line)
}

// startAgent runs the agent in a goroutine and signals completion.
func startAgent(ctx context.Context, run AgentFunc, prompt string, eventCh chan<- assistant.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, prompt, func(e assistant.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns AgentDoneMsg.
func listenForEvent(ch <-chan assistant.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AgentDoneMsg{Err: <-doneCh}
		}
		return StreamEventMsg{Event: evt}
	}
}
