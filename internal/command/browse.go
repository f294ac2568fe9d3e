// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/urfave/cli/v3"

	"github.com/staranto/wtyctlgo/internal/attrs"
	"github.com/staranto/wtyctlgo/internal/engine"
	"github.com/staranto/wtyctlgo/internal/meta"
	"github.com/staranto/wtyctlgo/internal/output"
	"github.com/staranto/wtyctlgo/internal/render"
	"github.com/staranto/wtyctlgo/internal/warranty"
)

// browseChrome is the number of lines around the product rows: the search
// box, the summary, the notice and the help line.
const browseChrome = 4

// frameSurface keeps the most recent frame for the UI. Engine timers draw
// from their own goroutines, so every draw only stores and signals.
type frameSurface struct {
	mu    sync.Mutex
	frame render.Frame
	ready chan struct{}
}

func newFrameSurface() *frameSurface {
	return &frameSurface{ready: make(chan struct{}, 1)}
}

func (s *frameSurface) Empty(sum render.Summary) error {
	s.store(render.Frame{Summary: sum})
	return nil
}

func (s *frameSurface) Draw(f render.Frame) error {
	s.store(f)
	return nil
}

func (s *frameSurface) store(f render.Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *frameSurface) latest() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// noticeBox holds the last notice for the status line.
type noticeBox struct {
	mu   sync.Mutex
	last engine.Notice
}

func (b *noticeBox) Notify(n engine.Notice) {
	log.Debugf("notice: %s %s", n.Kind, n.Message)
	b.mu.Lock()
	b.last = n
	b.mu.Unlock()
}

func (b *noticeBox) get() engine.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

type frameMsg struct{}

func waitForFrame(s *frameSurface) tea.Cmd {
	return func() tea.Msg {
		<-s.ready
		return frameMsg{}
	}
}

var (
	summaryStyle = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	noticeStyles = map[engine.Kind]lipgloss.Style{
		engine.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#00c853")),
		engine.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f6be00")),
		engine.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5252")),
	}
)

type browseModel struct {
	engine  *engine.Engine
	surface *frameSurface
	notices *noticeBox
	input   textinput.Model
	attrs   attrs.AttrList
	opts    output.Options

	rows   int
	offset int
	status int
}

func newBrowseModel(e *engine.Engine, s *frameSurface, n *noticeBox, al attrs.AttrList, opts output.Options) browseModel {
	ti := textinput.New()
	ti.Placeholder = "search name, brand, model or category"
	ti.Prompt = "/ "
	ti.Focus()

	return browseModel{
		engine:  e,
		surface: s,
		notices: n,
		input:   ti,
		attrs:   al,
		opts:    opts,
		rows:    e.Viewport().Height,
		offset:  e.Viewport().Offset,
		status:  -1,
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForFrame(m.surface))
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m, waitForFrame(m.surface)

	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-browseChrome, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.engine.SetViewport(m.rows)
		m.offset = min(m.offset, m.maxOffset())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.engine.FlushSearch()
			return m, nil
		case "tab":
			m.status++
			if m.status >= len(warranty.Statuses) {
				m.status = -1
			}
			m.offset = 0
			m.engine.SetStatus(m.statusFilter())
			return m, nil
		case "up":
			return m.scrollTo(m.offset - 1), nil
		case "down":
			return m.scrollTo(m.offset + 1), nil
		case "pgup":
			return m.scrollTo(m.offset - m.rows), nil
		case "pgdown":
			return m.scrollTo(m.offset + m.rows), nil
		case "home":
			return m.scrollTo(0), nil
		case "end":
			return m.scrollTo(m.maxOffset()), nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.offset = 0
			m.engine.Search(m.input.Value())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) statusFilter() string {
	if m.status < 0 {
		return ""
	}
	return string(warranty.Statuses[m.status])
}

func (m browseModel) maxOffset() int {
	vp := m.engine.Viewport()
	return vp.MaxOffset(m.surface.latest().Summary.Displayed) / max(vp.ItemExtent, 1)
}

func (m browseModel) scrollTo(offset int) browseModel {
	m.offset = min(max(offset, 0), m.maxOffset())
	m.engine.Scroll(m.offset * max(m.engine.Viewport().ItemExtent, 1))
	return m
}

// visibleCards returns the cards of the frame that fall on screen.
func (m browseModel) visibleCards(f render.Frame) []render.Card {
	skip := min(max(m.offset-f.Window.Start, 0), len(f.Cards))
	end := min(skip+m.rows, len(f.Cards))
	return f.Cards[skip:end]
}

func (m browseModel) View() string {
	f := m.surface.latest()

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	cards := m.visibleCards(f)
	if len(cards) == 0 {
		b.WriteString("No products found.\n")
	} else {
		rows := output.Rows(cards, m.attrs)
		var table bytes.Buffer
		if err := output.TableWriter(rows, m.attrs, m.opts, &table); err != nil {
			fmt.Fprintf(&b, "%v\n", err)
		} else {
			b.WriteString(table.String())
		}
	}

	status := "all"
	if s := m.statusFilter(); s != "" {
		status = warranty.Status(s).Text()
	}
	b.WriteString(summaryStyle.Render(fmt.Sprintf("%s  status: %s", f.Summary.String(), status)))
	b.WriteString("\n")

	if n := m.notices.get(); n.Message != "" {
		style, ok := noticeStyles[n.Kind]
		if !ok {
			style = lipgloss.NewStyle()
		}
		b.WriteString(style.Render(n.Message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("type to search  tab status  ↑/↓ pgup/pgdn scroll  enter apply  esc quit"))
	return b.String()
}

// BrowseCommandAction runs the interactive product browser.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "browse") {
		return nil
	}

	al, err := BuildAttrs(cmd)
	if err != nil {
		return err
	}

	if d := cmd.String("data-dir"); d != "" {
		m.DataDir = d
	}
	m.Settings.Virtualize = true
	m.Settings.ViewportHeight = max(viewportHeight(cmd, m.Settings.ViewportHeight+browseChrome)-browseChrome, 1)

	surface := newFrameSurface()
	notices := &noticeBox{}
	e, err := OpenEngine(m, surface,
		engine.WithNotifier(notices.Notify),
		engine.WithCriteria(CriteriaFromFlags(cmd)),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.Render(); err != nil {
		return err
	}

	opts := OutputOptions(cmd)
	opts.Format = "text"
	model := newBrowseModel(e, surface, notices, al, opts)
	model.input.SetValue(cmd.String("search"))

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	flags := []cli.Flag{
		NewDataDirFlag("browse"),
		&cli.IntFlag{
			Name:  "height",
			Usage: "rows to show, defaults to the terminal height",
		},
		newTldrFlag(),
	}
	flags = append(flags, NewCriteriaFlags("browse")...)
	flags = append(flags, NewGlobalFlags("browse")...)

	return &cli.Command{
		Name:      "browse",
		Usage:     "browse and search products interactively",
		UsageText: `wtyctl browse [flags]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: BrowseCommandAction,
	}
}
