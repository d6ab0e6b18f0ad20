// Terminal table viewer over the registrations table. Runs read-only against
// the same database as the web service.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wak-lab-e-v/jw-db-manager/models"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	detailTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	detailLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	db *gorm.DB

	table     table.Model
	filter    textinput.Model
	filtering bool

	regs     []models.Registration
	detail   *models.Registration
	errMsg   string
	lastLoad string
}

type loadedMsg struct {
	regs []models.Registration
	err  error
}

func newModel(db *gorm.DB) model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Bestellnr", Width: 10},
		{Title: "Name", Width: 18},
		{Title: "Vorname", Width: 14},
		{Title: "Feiertag", Width: 11},
		{Title: "Zeit", Width: 6},
		{Title: "Status", Width: 14},
		{Title: "Bilder", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(s)

	f := textinput.New()
	f.Placeholder = "filter (order, name, status)"
	f.CharLimit = 64

	return model{db: db, table: t, filter: f}
}

func (m model) Init() tea.Cmd {
	return m.load
}

func (m model) load() tea.Msg {
	var regs []models.Registration
	err := m.db.Order("event_date, event_time, surname").Find(&regs).Error
	return loadedMsg{regs: regs, err: err}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.regs = msg.regs
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
				m.table.Focus()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter()
				return m, cmd
			}
			return m, nil
		}
		if m.detail != nil {
			switch msg.String() {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.table.Blur()
			return m, m.filter.Focus()
		case "r":
			return m, m.load
		case "enter":
			if reg := m.selectedRegistration(); reg != nil {
				m.detail = reg
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) selectedRegistration() *models.Registration {
	row := m.table.SelectedRow()
	if row == nil {
		return nil
	}
	id, err := strconv.ParseUint(row[0], 10, 64)
	if err != nil {
		return nil
	}
	for i := range m.regs {
		if m.regs[i].ID == uint(id) {
			return &m.regs[i]
		}
	}
	return nil
}

func (m *model) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	rows := []table.Row{}
	for _, r := range m.regs {
		if needle != "" && !matchesFilter(r, needle) {
			continue
		}
		hasImages := ""
		if r.WorkDir != "" {
			hasImages = "ja"
		}
		rows = append(rows, table.Row{
			strconv.FormatUint(uint64(r.ID), 10),
			r.OrderNumber, r.Surname, r.GivenName,
			r.EventDate, r.EventTime, r.Status, hasImages,
		})
	}
	m.table.SetRows(rows)
}

func matchesFilter(r models.Registration, needle string) bool {
	for _, field := range []string{r.OrderNumber, r.Surname, r.GivenName, r.EventDate, r.Status, r.Note} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (m model) View() string {
	if m.detail != nil {
		return m.detailView()
	}
	var b strings.Builder
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
	} else if v := m.filter.Value(); v != "" {
		b.WriteString(helpStyle.Render("filter: " + v))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + helpStyle.Render("error: "+m.errMsg))
	}
	b.WriteString("\n" + helpStyle.Render("enter: details  /: filter  r: reload  q: quit"))
	return b.String()
}

func (m model) detailView() string {
	r := m.detail
	line := func(label, value string) string {
		return detailLabel.Render(label) + value + "\n"
	}
	var b strings.Builder
	b.WriteString(detailTitle.Render(fmt.Sprintf("%s %s (Bestellnr. %s)", r.GivenName, r.Surname, r.OrderNumber)))
	b.WriteString("\n\n")
	b.WriteString(line("Fingerprint", r.Fingerprint))
	b.WriteString(line("Feiertag", r.EventDate))
	b.WriteString(line("Uhrzeit", r.EventTime))
	b.WriteString(line("Location", r.Location))
	b.WriteString(line("Status", r.Status))
	b.WriteString(line("Quelle", r.SourceDir))
	b.WriteString(line("Arbeitsordner", r.WorkDir))
	b.WriteString(line("Finale Bilder", strings.TrimSpace(strings.Join(
		[]string{r.FinalPicture1, r.FinalPicture2, r.FinalPicture3}, " "))))
	b.WriteString(line("Hinweis", r.Note))
	b.WriteString("\n" + helpStyle.Render("esc: back"))
	return baseStyle.Render(b.String())
}

func main() {
	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	if _, err := tea.NewProgram(newModel(db), tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("viewer failed: %v", err)
	}
}
