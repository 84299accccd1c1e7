// Package tui is the terminal front end. It holds no domain logic: every
// mutation goes through the store, every derived number comes from
// analytics, and the records search is the search engine applied to the
// current snapshot.
package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/spendtrack/internal/config"
	"github.com/jask/spendtrack/internal/search"
	"github.com/jask/spendtrack/internal/service"
	"github.com/jask/spendtrack/internal/store"
	"github.com/jask/spendtrack/internal/validate"
)

type viewState string

const (
	viewDashboard viewState = "dashboard"
	viewRecords   viewState = "records"
	viewForm      viewState = "form"
	viewSettings  viewState = "settings"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
	modalNewCategory   modalState = "newCategory"
	modalBudget        modalState = "budget"
	modalImportPath    modalState = "importPath"
)

// form field order mirrors the entry form top to bottom.
const (
	fieldDescription = iota
	fieldAmount
	fieldCategory
	fieldDate
	fieldCount
)

// App ties the views together over one store.
type App struct {
	store    *store.Store
	transfer *service.TransferService
	cfg      config.Config

	state viewState
	modal modalState

	// snapshots refreshed from the store subscription
	rows     []store.Transaction
	settings store.Settings

	// records view
	recCursor     int
	searchInput   string
	searchTyping  bool
	caseSensitive bool
	searchErr     string
	deleteID      string

	// entry form
	formValues [fieldCount]string
	formErrors [fieldCount]string
	formField  int
	editingID  string

	// settings view
	settingsCursor int
	inputBuffer    string

	status string
}

// New wires the app and subscribes it to store changes.
func New(s *store.Store, transfer *service.TransferService, cfg config.Config) *App {
	a := &App{
		store:    s,
		transfer: transfer,
		cfg:      cfg,
		state:    viewDashboard,
	}
	a.refresh()
	s.Subscribe(a.refresh)
	return a
}

// refresh re-queries the store. The notification carries no payload by
// contract, so this is the only way views learn about changes.
func (a *App) refresh() {
	a.rows = a.store.Transactions()
	a.settings = a.store.Settings()
	if a.recCursor >= len(a.rows) {
		a.recCursor = 0
	}
	if a.settingsCursor >= len(a.settings.Categories) {
		a.settingsCursor = 0
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sm, ok := msg.(statusMsg); ok {
		a.status = string(sm)
		return a, nil
	}
	m, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	if a.modal != modalNone {
		return a.handleModalKey(m)
	}
	switch a.state {
	case viewForm:
		return a.handleFormKey(m)
	case viewRecords:
		return a.handleRecordsKey(m)
	case viewSettings:
		return a.handleSettingsKey(m)
	default:
		return a.handleDashboardKey(m)
	}
}

func (a *App) handleDashboardKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "r":
		a.state = viewRecords
		a.status = ""
	case "a":
		a.openForm("")
	case "s":
		a.state = viewSettings
		a.status = ""
	}
	return a, nil
}

func (a *App) handleRecordsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searchTyping {
		return a.handleSearchKey(m)
	}
	rows := a.filteredRows()
	if a.recCursor >= len(rows) {
		a.recCursor = 0
	}
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d", "esc":
		a.state = viewDashboard
		a.status = ""
	case "s":
		a.state = viewSettings
		a.status = ""
	case "a":
		a.openForm("")
	case "/":
		a.searchTyping = true
		a.searchErr = ""
	case "c":
		a.caseSensitive = !a.caseSensitive
		a.checkPattern()
	case "up", "k":
		if a.recCursor > 0 {
			a.recCursor--
		}
	case "down", "j":
		if a.recCursor < len(rows)-1 {
			a.recCursor++
		}
	case "enter", "e":
		if len(rows) > 0 {
			a.openForm(rows[a.recCursor].ID)
		}
	case "backspace", "delete", "x":
		if len(rows) > 0 {
			a.deleteID = rows[a.recCursor].ID
			a.modal = modalConfirmDelete
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searchTyping = false
		a.searchInput = ""
		a.searchErr = ""
	case tea.KeyEnter:
		a.searchTyping = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.searchInput) > 0 {
			a.searchInput = a.searchInput[:len(a.searchInput)-1]
			a.checkPattern()
		}
	case tea.KeySpace:
		a.searchInput += " "
		a.checkPattern()
	case tea.KeyRunes:
		a.searchInput += string(m.Runes)
		a.checkPattern()
	}
	a.recCursor = 0
	return a, nil
}

// checkPattern surfaces compile errors next to the search box; filtering
// itself fails open so the list never disappears under a half-typed
// pattern.
func (a *App) checkPattern() {
	a.searchErr = ""
	if a.searchInput == "" {
		return
	}
	if _, err := search.Compile(a.searchInput, a.caseSensitive); err != nil {
		a.searchErr = err.Error()
	}
}

func (a *App) filteredRows() []store.Transaction {
	return search.Filter(a.rows, a.searchInput, a.caseSensitive)
}

func (a *App) openForm(editID string) {
	a.state = viewForm
	a.formField = fieldDescription
	a.formErrors = [fieldCount]string{}
	a.editingID = editID
	a.status = ""
	if editID == "" {
		a.formValues = [fieldCount]string{}
		a.formValues[fieldDate] = time.Now().Format("2006-01-02")
		return
	}
	t, ok := a.store.Transaction(editID)
	if !ok {
		a.editingID = ""
		a.formValues = [fieldCount]string{}
		return
	}
	a.formValues[fieldDescription] = t.Description
	a.formValues[fieldAmount] = search.FormatAmount(t.Amount)
	a.formValues[fieldCategory] = t.Category
	a.formValues[fieldDate] = t.Date
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewRecords
		a.editingID = ""
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.formField = (a.formField + 1) % fieldCount
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.formField = (a.formField + fieldCount - 1) % fieldCount
		return a, nil
	case tea.KeyEnter:
		return a.submitForm()
	case tea.KeyBackspace, tea.KeyCtrlH:
		v := a.formValues[a.formField]
		if len(v) > 0 {
			a.formValues[a.formField] = v[:len(v)-1]
		}
		return a, nil
	case tea.KeySpace:
		a.formValues[a.formField] += " "
		return a, nil
	case tea.KeyRunes:
		a.formValues[a.formField] += string(m.Runes)
		return a, nil
	}
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	return a, nil
}

// submitForm validates every field independently so the user sees all
// problems at once, then commits through the store.
func (a *App) submitForm() (tea.Model, tea.Cmd) {
	results := [fieldCount]validate.Result{
		fieldDescription: validate.Description(a.formValues[fieldDescription]),
		fieldAmount:      validate.Amount(a.formValues[fieldAmount]),
		fieldCategory:    validate.Category(a.formValues[fieldCategory]),
		fieldDate:        validate.Date(a.formValues[fieldDate], time.Now()),
	}
	valid := true
	for i, r := range results {
		a.formErrors[i] = r.Message
		if !r.Valid {
			valid = false
		}
	}
	if !valid {
		return a, nil
	}

	amount, err := strconv.ParseFloat(a.formValues[fieldAmount], 64)
	if err != nil {
		a.formErrors[fieldAmount] = "Amount must be greater than 0"
		return a, nil
	}
	desc := strings.TrimSpace(a.formValues[fieldDescription])
	category := strings.TrimSpace(a.formValues[fieldCategory])
	date := a.formValues[fieldDate]

	if !a.knownCategory(category) {
		if hint, ok := validate.SuggestCategory(category, a.settings.Categories); ok && hint != category {
			a.formErrors[fieldCategory] = fmt.Sprintf("Unknown category - did you mean %q?", hint)
			return a, nil
		}
		// brand new category: register it so the settings view lists it
		if err := a.store.AddCategory(category); err != nil {
			a.status = "warning: save failed: " + err.Error()
		}
	}

	if a.editingID != "" {
		err = a.store.UpdateTransaction(a.editingID, store.TransactionUpdate{
			Description: &desc, Amount: &amount, Category: &category, Date: &date,
		})
		a.status = "transaction updated"
	} else {
		_, err = a.store.AddTransaction(store.Draft{
			Description: desc, Amount: amount, Category: category, Date: date,
		})
		a.status = "transaction added"
	}
	if err != nil {
		a.status = "saved in memory, persist failed: " + err.Error()
	}
	a.editingID = ""
	a.state = viewRecords
	return a, nil
}

func (a *App) knownCategory(name string) bool {
	for _, c := range a.settings.Categories {
		if c == name {
			return true
		}
	}
	return false
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc", "d":
		a.state = viewDashboard
		a.status = ""
	case "r":
		a.state = viewRecords
		a.status = ""
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < len(a.settings.Categories)-1 {
			a.settingsCursor++
		}
	case "n":
		a.modal = modalNewCategory
		a.inputBuffer = ""
	case "b":
		a.modal = modalBudget
		a.inputBuffer = search.FormatAmount(a.settings.MonthlyBudget)
	case "backspace", "delete", "x":
		if len(a.settings.Categories) == 0 {
			return a, nil
		}
		name := a.settings.Categories[a.settingsCursor]
		if name == store.CatchAllCategory {
			a.status = fmt.Sprintf("%q is the catch-all category and cannot be removed", name)
			return a, nil
		}
		if err := a.store.RemoveCategory(name); err != nil {
			a.status = "remove failed to persist: " + err.Error()
		} else {
			a.status = "category removed"
		}
	case "e":
		return a, a.exportCmd()
	case "i":
		a.modal = modalImportPath
		a.inputBuffer = ""
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal == modalConfirmDelete {
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if err := a.store.DeleteTransaction(a.deleteID); err != nil {
				a.status = "delete failed to persist: " + err.Error()
			} else {
				a.status = "transaction deleted"
			}
			a.deleteID = ""
		case "n", "N", "esc":
			a.modal = modalNone
			a.deleteID = ""
		}
		return a, nil
	}

	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(a.inputBuffer)
		mode := a.modal
		a.modal = modalNone
		a.inputBuffer = ""
		switch mode {
		case modalNewCategory:
			a.addCategory(text)
		case modalBudget:
			a.saveBudget(text)
		case modalImportPath:
			return a, a.importCmd(text)
		}
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) addCategory(name string) {
	if res := validate.Category(name); !res.Valid {
		a.status = res.Message
		return
	}
	before := len(a.settings.Categories)
	if err := a.store.AddCategory(name); err != nil {
		a.status = "category saved in memory, persist failed: " + err.Error()
		return
	}
	if len(a.settings.Categories) == before {
		a.status = fmt.Sprintf("category %q already exists", name)
		return
	}
	a.status = "category added"
}

func (a *App) saveBudget(text string) {
	if res := validate.Amount(text); !res.Valid {
		a.status = res.Message
		return
	}
	budget, err := strconv.ParseFloat(text, 64)
	if err != nil {
		a.status = "Amount must be greater than 0"
		return
	}
	if err := a.store.UpdateSettings(store.SettingsUpdate{MonthlyBudget: &budget}); err != nil {
		a.status = "budget saved in memory, persist failed: " + err.Error()
		return
	}
	a.status = "budget saved"
}

func (a *App) exportCmd() tea.Cmd {
	path := fmt.Sprintf("spendtrack-%s.json", time.Now().Format("2006-01-02"))
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		defer f.Close()
		if err := a.transfer.Export(f); err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		return statusMsg("exported to " + path)
	}
}

func (a *App) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return statusMsg("enter a JSON path")
		}
		f, err := os.Open(path)
		if err != nil {
			return statusMsg("import failed: " + err.Error())
		}
		defer f.Close()
		res, err := a.transfer.Import(f)
		if err != nil {
			return statusMsg("import rejected: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("imported %d transactions", res.Imported))
	}
}

type statusMsg string
