package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"genomicseq/internal/extract"
	"genomicseq/internal/fasta"
	"genomicseq/internal/location"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	plusStyle  = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	minusStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

// entry is one record of an extraction output file.
type entry struct {
	record fasta.FastaRecord
	strand location.Strand
	// parsed is false when the header is not a location line.
	parsed bool
}

func newEntry(rec fasta.FastaRecord) entry {
	e := entry{record: rec}
	if loc, err := location.Parse(rec.Header); err == nil {
		e.strand = loc.Strand()
		e.parsed = true
	}
	return e
}

type listItem struct {
	entry entry
}

func (i listItem) FilterValue() string {
	return i.entry.record.Header
}

func (i listItem) Title() string {
	return i.entry.record.Header
}

func (i listItem) Description() string {
	c := composition(i.entry.record.Sequence)
	return fmt.Sprintf("Strand: %s    Length: %d    GC: %.1f%%", i.entry.strandLabel(), c.Total, 100*c.GC())
}

func (e entry) strandLabel() string {
	if !e.parsed {
		return labelStyle.Render("?")
	}
	if e.strand == location.Minus {
		return minusStyle.Render("-")
	}
	return plusStyle.Render("+")
}

// baseCounts tallies nucleotides case-insensitively; anything else is Other.
type baseCounts struct {
	A, C, G, T, N, Other int
	Total                int
}

func composition(seq string) baseCounts {
	var c baseCounts
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'a':
			c.A++
		case 'C', 'c':
			c.C++
		case 'G', 'g':
			c.G++
		case 'T', 't':
			c.T++
		case 'N', 'n':
			c.N++
		default:
			c.Other++
		}
	}
	c.Total = len(seq)
	return c
}

// GC is the G+C fraction over A, C, G and T only.
func (c baseCounts) GC() float64 {
	acgt := c.A + c.C + c.G + c.T
	if acgt == 0 {
		return 0
	}
	return float64(c.G+c.C) / float64(acgt)
}

type mode int

const (
	modeExtracted mode = iota
	modeReverseComplement
	modeComposition
)

func (m mode) String() string {
	switch m {
	case modeExtracted:
		return "Extracted"
	case modeReverseComplement:
		return "Reverse complement"
	case modeComposition:
		return "Composition"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	entries       []entry
	source        string
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	selectedIndex int
}

func initialModel(source string, records []fasta.FastaRecord) model {
	entries := make([]entry, len(records))
	items := make([]list.Item, len(records))
	for i, rec := range records {
		entries[i] = newEntry(rec)
		items[i] = listItem{entry: entries[i]}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Extracted locations"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:        l,
		entries:     entries,
		source:      source,
		currentMode: modeExtracted,
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// let the list own the keyboard while the filter prompt is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.showHelp = !m.showHelp
			return m, nil
		case "tab":
			return m.cycleMode(), nil
		case "1":
			m.currentMode = modeExtracted
			return m, nil
		case "2":
			m.currentMode = modeReverseComplement
			return m, nil
		case "3":
			m.currentMode = modeComposition
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpModal()
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeftPanel(), m.renderRightPanel())
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m model) renderLeftPanel() string {
	return containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	panel := containerStyle.
		Width((m.width*2)/3 - 2).
		Height(m.height - 4)

	if len(m.entries) == 0 {
		return panel.Render("No records available")
	}
	selected, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return panel.Render("No item selected")
	}

	header := titleStyle.Render(selected.entry.record.Header)
	meta := labelStyle.Render("Strand: ") + selected.entry.strandLabel() +
		labelStyle.Render(fmt.Sprintf("    Length: %d bp", len(selected.entry.record.Sequence)))

	var content string
	switch m.currentMode {
	case modeExtracted:
		content = m.formatSequence(selected.entry.record.Sequence, "Sequence")
	case modeReverseComplement:
		content = m.formatSequence(extract.ReverseComplement(selected.entry.record.Sequence), "Reverse complement")
	case modeComposition:
		content = m.formatComposition(composition(selected.entry.record.Sequence))
	}

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, meta, "", content))
}

func (m model) buildRightLines(rec fasta.FastaRecord) []string {
	width := m.width*2/3 - 8
	if width < 10 {
		width = 10
	}
	seq := rec.Sequence
	var lines []string
	for len(seq) > width {
		lines = append(lines, seq[:width])
		seq = seq[width:]
	}
	if seq != "" {
		lines = append(lines, seq)
	}
	return lines
}

func (m model) formatSequence(sequence, title string) string {
	if sequence == "" {
		return labelStyle.Render(fmt.Sprintf("No %s available", strings.ToLower(title)))
	}

	titleStr := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(title + ":")

	wrapped := strings.Join(m.buildRightLines(fasta.FastaRecord{Sequence: sequence}), "\n")
	return lipgloss.JoinVertical(lipgloss.Left, titleStr, "", sequenceStyle.Render(wrapped))
}

func (m model) formatComposition(c baseCounts) string {
	pct := func(n int) float64 {
		if c.Total == 0 {
			return 0
		}
		return 100 * float64(n) / float64(c.Total)
	}
	rows := []string{
		fmt.Sprintf("A      %8d  %5.1f%%", c.A, pct(c.A)),
		fmt.Sprintf("C      %8d  %5.1f%%", c.C, pct(c.C)),
		fmt.Sprintf("G      %8d  %5.1f%%", c.G, pct(c.G)),
		fmt.Sprintf("T      %8d  %5.1f%%", c.T, pct(c.T)),
		fmt.Sprintf("N      %8d  %5.1f%%", c.N, pct(c.N)),
		fmt.Sprintf("other  %8d  %5.1f%%", c.Other, pct(c.Other)),
		"",
		fmt.Sprintf("GC content: %.2f%%", 100*c.GC()),
	}
	return sequenceStyle.Render(strings.Join(rows, "\n"))
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("%d/%d records", m.selectedIndex+1, len(m.entries))
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode)
	rightInfo := "Press 'h' for help, 'q' to quit"

	spacing := m.width - len(leftInfo) - len(centerInfo) - len(rightInfo) - 6
	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		statusContent = leftInfo + strings.Repeat(" ", leftSpacing) + centerInfo +
			strings.Repeat(" ", spacing-leftSpacing) + rightInfo
	} else {
		// Fallback for narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}
	return statusBarStyle.Width(m.width).Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `Extracted Locations Browser - Help

Navigation:
  up/down, j/k   Navigate list
  /              Filter by location

View Modes:
  1              Sequence as extracted
  2              Reverse complement
  3              Base composition
  tab            Next mode

General:
  h              Toggle this help
  q, Ctrl+C      Quit

Source: ` + m.source + `
Current Mode: ` + m.currentMode.String() + `
Total Records: ` + fmt.Sprintf("%d", len(m.entries)) + `
`

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Render(helpContent)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func loadRecords(path string) ([]fasta.FastaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fasta.ParseFasta(f)
}

func main() {
	cmd := &cobra.Command{
		Use:          "genomicseq-tui OUT_FILE",
		Short:        "Browse the records written by genomicseq",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadRecords(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(initialModel(args[0], records), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
