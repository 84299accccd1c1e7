package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/spendtrack/internal/analytics"
	"github.com/jask/spendtrack/internal/search"
	"github.com/jask/spendtrack/internal/store"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	matchStyle  = lipgloss.NewStyle().Reverse(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewRecords:
		body = a.renderRecords()
	case viewForm:
		body = a.renderForm()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderDashboard() string {
	now := time.Now()
	title := titleStyle.Render("SpendTrack Dashboard - " + now.Format("January 2006"))
	cur := a.cfg.UI.CurrencySymbol

	status := analytics.ComputeBudgetStatus(a.rows, a.settings, now)
	statusLine := a.styleFor(status.State).Render(status.Message)

	out := fmt.Sprintf("%s\nTotal spent: %s%.2f\nThis month:  %s%.2f of %s%.2f budget\n%s\n",
		title,
		cur, analytics.TotalSpent(a.rows),
		cur, status.Spent, cur, a.settings.MonthlyBudget,
		statusLine)

	out += "\nLast 7 days:\n"
	trend := analytics.Last7DaysTrend(a.rows, now)
	maxAmt := 0.0
	for _, d := range trend {
		if d.Amount > maxAmt {
			maxAmt = d.Amount
		}
	}
	for _, d := range trend {
		bar := ""
		if maxAmt > 0 {
			bar = strings.Repeat("█", int(d.Amount/maxAmt*20))
		}
		out += fmt.Sprintf("  %s %-20s %s%.2f\n", d.Date, bar, cur, d.Amount)
	}

	out += "\nBy category:\n"
	byCat := analytics.SpendingByCategory(a.rows)
	names := make([]string, 0, len(byCat))
	for name := range byCat {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return byCat[names[i]] > byCat[names[j]] })
	for _, name := range names {
		out += fmt.Sprintf("  %-24s %s%.2f\n", name, cur, byCat[name])
	}

	out += "\n[r] Records  [a] Add transaction  [s] Settings  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderRecords() string {
	title := titleStyle.Render("Records")
	out := title + "\n"

	searchLine := "Search: " + a.searchInput
	if a.searchTyping {
		searchLine += "▏"
	}
	caseLabel := "off"
	if a.caseSensitive {
		caseLabel = "on"
	}
	out += fmt.Sprintf("%s   (case sensitive: %s)\n", searchLine, caseLabel)
	if a.searchErr != "" {
		out += dangerStyle.Render(a.searchErr) + "\n"
	}

	rows := a.filteredRows()
	if len(rows) == 0 {
		out += faintStyle.Render("(no matching transactions)") + "\n"
	}
	mark := func(s string) string { return matchStyle.Render(s) }
	for i, t := range rows {
		marker := " "
		if i == a.recCursor && !a.searchTyping {
			marker = "▶"
		}
		desc := search.Highlight(t.Description, a.searchInput, a.caseSensitive, mark)
		cat := search.Highlight(t.Category, a.searchInput, a.caseSensitive, mark)
		out += fmt.Sprintf("%s %s  %-40s  %s%8.2f  %s\n",
			marker, t.Date, desc, a.cfg.UI.CurrencySymbol, t.Amount, cat)
	}

	out += "[/] Search  [c] Case  [a] Add  [enter] Edit  [x] Delete  [d] Dashboard  [s] Settings  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderForm() string {
	heading := "Add Transaction"
	if a.editingID != "" {
		heading = "Edit Transaction"
	}
	title := titleStyle.Render(heading)
	labels := [fieldCount]string{"Description", "Amount", "Category", "Date"}

	out := title + "\n"
	for i := 0; i < fieldCount; i++ {
		marker := " "
		if i == a.formField {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-12s %s", marker, labels[i]+":", a.formValues[i])
		if i == a.formField {
			out += "▏"
		}
		out += "\n"
		if a.formErrors[i] != "" {
			out += "  " + dangerStyle.Render(a.formErrors[i]) + "\n"
		}
	}
	out += faintStyle.Render(fmt.Sprintf("Categories: %s", strings.Join(a.settings.Categories, ", "))) + "\n"
	out += "[tab] Next field  [enter] Save  [esc] Cancel"
	return out
}

func (a *App) renderSettings() string {
	title := titleStyle.Render("Settings")
	cur := a.cfg.UI.CurrencySymbol
	out := title + "\n"
	out += fmt.Sprintf("Monthly budget: %s%.2f\n", cur, a.settings.MonthlyBudget)
	out += fmt.Sprintf("Base currency:  %s\n", a.settings.BaseCurrency)

	codes := make([]string, 0, len(a.settings.Currencies))
	for code := range a.settings.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	rates := make([]string, 0, len(codes))
	for _, code := range codes {
		rates = append(rates, fmt.Sprintf("%s %.2f", code, a.settings.Currencies[code]))
	}
	out += "Rates:          " + strings.Join(rates, "  ") + "\n"

	out += "\nCategories\n"
	for i, c := range a.settings.Categories {
		marker := " "
		if i == a.settingsCursor {
			marker = "▶"
		}
		label := c
		if c == store.CatchAllCategory {
			label += faintStyle.Render(" (catch-all)")
		}
		out += fmt.Sprintf("%s %s\n", marker, label)
	}

	out += "\n[n] New category  [x] Remove  [b] Set budget  [e] Export  [i] Import\n"
	out += "[d] Dashboard  [r] Records  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		desc := ""
		if t, ok := a.store.Transaction(a.deleteID); ok {
			desc = " " + fmt.Sprintf("%q", t.Description)
		}
		return titleStyle.Render("Delete transaction?") + fmt.Sprintf("\nThis removes%s permanently.\n[y] Yes  [n] No", desc)
	case modalNewCategory:
		return titleStyle.Render("New category") + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalBudget:
		return titleStyle.Render("Monthly budget") + fmt.Sprintf("\n%s\n[enter] Save  [esc] Cancel", a.inputBuffer)
	case modalImportPath:
		return titleStyle.Render("Import JSON (path)") + fmt.Sprintf("\n%s\n[enter] Import  [esc] Cancel", a.inputBuffer)
	default:
		return ""
	}
}

func (a *App) styleFor(state analytics.BudgetState) lipgloss.Style {
	switch state {
	case analytics.BudgetDanger:
		return dangerStyle
	case analytics.BudgetWarning:
		return warnStyle
	default:
		return okStyle
	}
}
