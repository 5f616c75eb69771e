package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/portal/internal/nav"
)

func (m *model) View() string {
	var body string
	switch m.nav.Current() {
	case nav.Home:
		body = m.viewHome()
	case nav.Business, nav.Support:
		body = m.viewInfo(m.nav.Current())
	case nav.Upload:
		body = m.viewUpload()
	default:
		body = m.viewNotFound()
	}
	return lipgloss.NewStyle().Width(m.layout.contentWidth).Render(body)
}

func (m *model) heroView(title string) string {
	box := heroBoxStyle.Width(m.layout.wrapWidth())
	return box.Render(joinNonEmpty([]string{
		heroTitleStyle.Render(title),
		taglineStyle.Render(heroTagline),
	}))
}

func (m *model) viewHome() string {
	lines := make([]string, 0, len(homeMenu)*2)
	for i, entry := range homeMenu {
		label := fmt.Sprintf("%d. %s", i+1, entry.View.Title())
		if i == m.menuCursor {
			lines = append(lines, currentLineStyle.Render("> "+label))
		} else {
			lines = append(lines, subtitleStyle.Render("  "+label))
		}
		lines = append(lines, helperStyle.Render(indent(m.wrap(entry.Description), 4)))
	}
	return joinNonEmpty([]string{
		m.heroView(nav.Home.Title()),
		sectionHeaderStyle.Render("Services"),
		strings.Join(lines, "\n"),
		m.helpView(m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Shortcut, m.keys.Quit),
	})
}

func (m *model) viewInfo(view nav.View) string {
	return joinNonEmpty([]string{
		m.heroView(view.Title()),
		m.wrap(pageCopy[view]),
		m.helpView(m.keys.Back, m.keys.Quit),
	})
}

func (m *model) viewNotFound() string {
	return joinNonEmpty([]string{
		errorStyle.Render(notFoundMessage),
		m.helpView(m.keys.Back, m.keys.Quit),
	})
}

func (m *model) viewUpload() string {
	parts := []string{
		m.heroView(nav.Upload.Title()),
		helperStyle.Render(m.wrap(pageCopy[nav.Upload])),
	}
	if m.config.Endpoint != "" {
		parts = append(parts, helperStyle.Render("Endpoint: "+m.config.Endpoint))
	}

	switch m.stage {
	case uploadStagePicker:
		parts = append(parts, sectionHeaderStyle.Render("Choose a file"), m.picker.View())
	case uploadStagePath:
		parts = append(parts, sectionHeaderStyle.Render("File path"), m.pathInput.View())
	}

	parts = append(parts, m.selectedFileLine(), m.submitButton())
	if line := m.statusLine(); line != "" {
		parts = append(parts, line)
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.loadingFile {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	parts = append(parts, m.uploadHelp())
	return joinNonEmpty(parts)
}

func (m *model) selectedFileLine() string {
	pending := m.session.Pending()
	if pending == nil {
		return helperStyle.Render("No file selected.")
	}
	detail := pending.Name
	if m.fileInfo != nil && m.fileInfo.Name == pending.Name {
		detail = fmt.Sprintf("%s (%s)", pending.Name, m.fileInfo.Summary())
	}
	return subjectStyle.Render("Selected file: " + detail)
}

func (m *model) submitButton() string {
	status := m.session.Status()
	if status.InFlight() {
		return buttonDisabledStyle.Render(fmt.Sprintf("%s Uploading...", m.spinner.View()))
	}
	if !m.session.CanSubmit() {
		return buttonDisabledStyle.Render("Upload File")
	}
	return buttonStyle.Render("Upload File")
}

func (m *model) statusLine() string {
	status := m.session.Status()
	if status.Message == "" {
		return ""
	}
	text := m.wrap(status.Message)
	if status.IsError() {
		return statusErrorStyle.Render(text)
	}
	return statusOKStyle.Render(text)
}

func (m *model) uploadHelp() string {
	switch m.stage {
	case uploadStagePicker:
		return m.helpView(m.keys.Up, m.keys.Down, m.keys.PickerHint, m.keys.Cancel)
	case uploadStagePath:
		return m.helpView(m.keys.PickerHint, m.keys.Cancel)
	}
	return m.helpView(m.keys.Browse, m.keys.TypePath, m.keys.Submit, m.keys.Copy, m.keys.Back, m.keys.Quit)
}

func (m *model) helpView(bindings ...key.Binding) string {
	return m.help.ShortHelpView(bindings)
}

func (m *model) wrap(text string) string {
	return wordwrap.String(text, m.layout.wrapWidth())
}

func indent(text string, width int) string {
	pad := strings.Repeat(" ", width)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	subtitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subjectStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	currentLineStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	statusOKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	statusErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef476f"))
	buttonStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 2)
	buttonDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236")).Padding(0, 2)

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#ffe8d2")
	heroSecondaryTextColor = lipgloss.Color("#f7c289")

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(1, 2)
	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
)
