package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"seqvol/internal/seqvol/styles"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewSummary
)

// editDoneMsg carries the finished edit (or its failure) back to the UI.
type editDoneMsg struct {
	report *editReport
	err    error
}

func editCmd(path string, vol byte, gameArg string, fixJumps bool, outPath string) tea.Cmd {
	return func() tea.Msg {
		report, err := runEdit(path, vol, gameArg, fixJumps, outPath)
		return editDoneMsg{report: report, err: err}
	}
}

type model struct {
	viewport    viewport.Model
	summaryView viewport.Model
	spinner     spinner.Model
	mode        viewMode

	filepath string
	vol      byte
	gameArg  string
	fixJumps bool
	outPath  string

	report  *editReport
	err     error
	loading bool
	width   int
	height  int
}

func newModel(filepath string, vol byte, gameArg string, fixJumps bool, outPath string) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	svp := viewport.New()
	svp.SetWidth(80)
	svp.SetHeight(24)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	m := model{
		viewport:    vp,
		summaryView: svp,
		spinner:     s,
		mode:        viewListing,
		filepath:    filepath,
		vol:         vol,
		gameArg:     gameArg,
		fixJumps:    fixJumps,
		outPath:     outPath,
		loading:     true,
		width:       80,
		height:      24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		editCmd(m.filepath, m.vol, m.gameArg, m.fixJumps, m.outPath),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editDoneMsg:
		m.report = msg.report
		m.err = msg.err
		m.loading = false
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.loading {
			m.updateContent()
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.summaryView.SetWidth(msg.Width)
			m.summaryView.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "s":
			m.mode = viewSummary
			return m, nil
		case "tab":
			if m.mode == viewListing {
				m.mode = viewSummary
			} else {
				m.mode = viewListing
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.mode == viewSummary {
		m.summaryView, cmd = m.summaryView.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewSummary:
		content = m.summaryView.View()
	default:
		content = m.viewport.View()
	}

	var menu string
	switch m.mode {
	case viewSummary:
		menu = " L: listing • Tab: cycle • Q: quit "
	default:
		menu = " S: summary • Tab: cycle • Q: quit "
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

func (m *model) updateContent() {
	if m.loading {
		m.viewport.SetContent(fmt.Sprintf("\n %s Parsing SEQ section of sequence file...", m.spinner.View()))
		m.summaryView.SetContent("")
		return
	}

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
		content := fmt.Sprintf("\n %s\n\n %v\n\n Nothing was written.",
			errStyle.Render("[ERROR]"), m.err)
		m.viewport.SetContent(content)
		m.summaryView.SetContent(content)
		return
	}

	m.viewport.SetContent("[SEQ COMMANDS]:\n" + renderListing(m.report.commands, true))
	m.summaryView.SetContent(m.renderSummary())
}

func (m *model) renderSummary() string {
	r := m.report

	var md strings.Builder
	md.WriteString("# Seqvol\n\n")
	fmt.Fprintf(&md, "```\n%s\ngame: %s\n```\n\n", r.File, r.Game)
	md.WriteString("## Result\n\n")
	if r.VolumePatches > 0 {
		fmt.Fprintf(&md, "- Master volume changed to `%d` (`0x%02X`) at %d location(s)\n",
			r.Volume, r.Volume, r.VolumePatches)
	} else {
		md.WriteString("- No master volume command found; the volume was not changed\n")
	}
	if r.FixJumps {
		fmt.Fprintf(&md, "- Conditional jumps fixed: %d\n", r.JumpPatches)
	}
	if len(r.PatchedOffsets) > 0 {
		fmt.Fprintf(&md, "- Patched offsets: %s\n", strings.Join(r.PatchedOffsets, ", "))
	}
	fmt.Fprintf(&md, "\nOutput written to `%s`\n", r.Output)

	width := m.width
	if width == 0 {
		width = 80
	}
	renderer := styles.GetMarkdownRenderer(width - 2)
	rendered, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimSuffix(rendered, "\n")
}
