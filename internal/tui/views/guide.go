package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pablasso/calplan/internal/tui/msgs"
	"github.com/pablasso/calplan/internal/tui/styles"
)

var gestureGuide = []string{
	"Drag across days      create a task",
	"Drag a task bar       move it",
	"Drag ▏ or ▕           change start or end",
	"Click a task bar      edit it",
	"Click +N more         list the day's tasks",
	"Release off the grid  cancel",
}

// GuideModel is the quick guide dialog.
type GuideModel struct {
	keys KeyMap
	help help.Model
}

// NewGuideModel creates the guide for keys.
func NewGuideModel(keys KeyMap) GuideModel {
	h := help.New()
	h.ShowAll = true
	return GuideModel{keys: keys, help: h}
}

// Init implements tea.Model.
func (m GuideModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Any of esc, q, ? or enter closes the guide.
func (m GuideModel) Update(msg tea.Msg) (GuideModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "q", "?", "enter":
			return m, emit(msgs.CloseDialogMsg{})
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m GuideModel) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Quick Guide"))
	b.WriteString("\n\n")
	b.WriteString(styles.SelectedStyle.Render("Mouse"))
	b.WriteByte('\n')
	b.WriteString(strings.Join(gestureGuide, "\n"))
	b.WriteString("\n\n")
	b.WriteString(styles.SelectedStyle.Render("Keys"))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.SubtleStyle.Render("Esc Close"))
	return styles.BoxStyle.Render(b.String())
}
