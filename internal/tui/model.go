package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pantrykit/pantry/internal/gateway"
	"github.com/pantrykit/pantry/internal/reconcile"
	"github.com/pantrykit/pantry/internal/session"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeLogin   ViewMode = iota // Username/password form
	ViewModeList                    // Recipe list
	ViewModeAdd                     // New recipe form
	ViewModeSearch                  // Search input over the list
	ViewModeConfirm                 // Delete confirmation
)

// Messages
type loginDoneMsg struct {
	err error
}

type recipesLoadedMsg struct {
	err error
}

type mutationDoneMsg struct {
	verb string
	err  error
}

type logoutDoneMsg struct{}

// Model is the root Bubble Tea model
type Model struct {
	width  int
	height int

	mode ViewMode
	keys KeyMap

	sess    *session.Store
	gw      *gateway.Client
	recipes *reconcile.Recipes

	// Login form
	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	// Add form
	nameInput  textinput.Model
	instrInput textinput.Model
	addFocus   int

	// Search
	searchInput textinput.Model
	filter      string

	// List state
	items  []reconcile.Recipe
	cursor int

	// Pending delete target
	confirmName string

	status    string
	statusErr bool
	busy      bool
}

// New builds the root model over an already wired client stack.
func New(sess *session.Store, gw *gateway.Client, recipes *reconcile.Recipes) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Placeholder = "recipe name"

	instr := textinput.New()
	instr.Placeholder = "instructions"

	search := textinput.New()
	search.Placeholder = "search recipes"

	m := Model{
		mode:          ViewModeLogin,
		keys:          DefaultKeyMap(),
		sess:          sess,
		gw:            gw,
		recipes:       recipes,
		usernameInput: username,
		passwordInput: password,
		nameInput:     name,
		instrInput:    instr,
		searchInput:   search,
	}
	if sess.Authenticated() {
		m.mode = ViewModeList
	}
	return m
}

// Run starts the interactive program.
func Run(sess *session.Store, gw *gateway.Client, recipes *reconcile.Recipes) error {
	p := tea.NewProgram(New(sess, gw, recipes), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.mode == ViewModeList {
		return tea.Batch(textinput.Blink, m.refreshCmd())
	}
	return textinput.Blink
}

// --- commands ---

func (m Model) loginCmd(username, password string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		return loginDoneMsg{err: gw.Login(context.Background(), username, password)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		_, err := recipes.Refresh(context.Background())
		return recipesLoadedMsg{err: err}
	}
}

func (m Model) addCmd(name, instructions string) tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		return mutationDoneMsg{verb: "added", err: recipes.Create(context.Background(), name, instructions)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		gw.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

func (m Model) deleteCmd(name string) tea.Cmd {
	recipes := m.recipes
	return func() tea.Msg {
		return mutationDoneMsg{verb: "deleted", err: recipes.DeleteByName(context.Background(), name)}
	}
}

// --- update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(loginErrorText(msg.err))
			return m, nil
		}
		m.mode = ViewModeList
		m.passwordInput.SetValue("")
		m.setOK("Logged in.")
		m.busy = true
		return m, m.refreshCmd()

	case recipesLoadedMsg:
		m.busy = false
		if msg.err != nil {
			return m.handleRequestError(msg.err)
		}
		m.applyFilter()
		return m, nil

	case logoutDoneMsg:
		m.busy = false
		m.mode = ViewModeLogin
		m.loginFocus = 0
		m.usernameInput.Focus()
		m.passwordInput.Blur()
		m.items = nil
		m.filter = ""
		m.setOK("Logged out.")
		return m, nil

	case mutationDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m.handleRequestError(msg.err)
		}
		m.setOK("Recipe " + msg.verb + ".")
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ViewModeLogin:
		return m.updateLogin(msg)
	case ViewModeAdd:
		return m.updateAdd(msg)
	case ViewModeSearch:
		return m.updateSearch(msg)
	case ViewModeConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.usernameInput.Focus()
			m.passwordInput.Blur()
		} else {
			m.usernameInput.Blur()
			m.passwordInput.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.usernameInput.Blur()
			m.passwordInput.Focus()
			return m, nil
		}
		username := strings.TrimSpace(m.usernameInput.Value())
		password := m.passwordInput.Value()
		if username == "" || password == "" {
			m.setError("username and password are required")
			return m, nil
		}
		m.busy = true
		m.status = ""
		return m, m.loginCmd(username, password)

	case tea.KeyEsc:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Logout):
		m.busy = true
		return m, m.logoutCmd()

	case key.Matches(msg, m.keys.Add):
		m.mode = ViewModeAdd
		m.addFocus = 0
		m.nameInput.SetValue("")
		m.instrInput.SetValue("")
		m.nameInput.Focus()
		m.instrInput.Blur()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if len(m.items) == 0 {
			return m, nil
		}
		m.confirmName = m.items[m.cursor].Name
		m.mode = ViewModeConfirm
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ViewModeSearch
		m.searchInput.SetValue(m.filter)
		m.searchInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ViewModeList
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		m.addFocus = (m.addFocus + 1) % 2
		if m.addFocus == 0 {
			m.nameInput.Focus()
			m.instrInput.Blur()
		} else {
			m.nameInput.Blur()
			m.instrInput.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		if m.addFocus == 0 {
			m.addFocus = 1
			m.nameInput.Blur()
			m.instrInput.Focus()
			return m, nil
		}
		name := strings.TrimSpace(m.nameInput.Value())
		instructions := strings.TrimSpace(m.instrInput.Value())
		if name == "" || instructions == "" {
			m.setError("name and instructions are required")
			return m, nil
		}
		m.mode = ViewModeList
		m.busy = true
		return m, m.addCmd(name, instructions)
	}

	var cmd tea.Cmd
	if m.addFocus == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.instrInput, cmd = m.instrInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ViewModeList
		return m, nil

	case tea.KeyEnter:
		m.filter = strings.TrimSpace(m.searchInput.Value())
		m.mode = ViewModeList
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		name := m.confirmName
		m.confirmName = ""
		m.mode = ViewModeList
		m.busy = true
		return m, m.deleteCmd(name)
	case "n", "N", "esc", "q":
		m.confirmName = ""
		m.mode = ViewModeList
		return m, nil
	}
	return m, nil
}

// handleRequestError routes failed requests. Auth failures drop back
// to the login form since the session has been torn down.
func (m Model) handleRequestError(err error) (tea.Model, tea.Cmd) {
	if gateway.IsAuthFailure(err) {
		m.mode = ViewModeLogin
		m.loginFocus = 0
		m.usernameInput.Focus()
		m.passwordInput.Blur()
		m.items = nil
		m.setError("session expired, please log in again")
		return m, nil
	}
	m.setError(err.Error())
	return m, nil
}

func loginErrorText(err error) string {
	if gateway.IsAuthFailure(err) {
		return "incorrect login"
	}
	return err.Error()
}

// applyFilter rebuilds the visible list from the cache.
func (m *Model) applyFilter() {
	if m.filter == "" {
		m.items = m.recipes.Items()
	} else {
		m.items = m.recipes.Search(m.filter)
	}
	if m.cursor >= len(m.items) {
		m.cursor = 0
	}
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

func (m *Model) setOK(msg string) {
	m.status = msg
	m.statusErr = false
}

// --- view ---

func (m Model) View() string {
	var b strings.Builder

	switch m.mode {
	case ViewModeLogin:
		b.WriteString(HeaderStyle.Render("Recipe Box / Log in"))
		b.WriteString("\n\n")
		b.WriteString("  " + m.usernameInput.View() + "\n")
		b.WriteString("  " + m.passwordInput.View() + "\n")
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("tab: switch field · enter: submit · esc: quit"))

	case ViewModeAdd:
		b.WriteString(HeaderStyle.Render("Recipe Box / New recipe"))
		b.WriteString("\n\n")
		b.WriteString("  " + m.nameInput.View() + "\n")
		b.WriteString("  " + m.instrInput.View() + "\n")
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("tab: switch field · enter: save · esc: cancel"))

	case ViewModeSearch:
		b.WriteString(HeaderStyle.Render("Recipe Box / Search"))
		b.WriteString("\n\n")
		b.WriteString("  " + m.searchInput.View() + "\n")
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("enter: apply · esc: cancel"))

	case ViewModeConfirm:
		b.WriteString(HeaderStyle.Render("Recipe Box"))
		b.WriteString("\n\n")
		b.WriteString(ItemStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.confirmName)))

	default:
		b.WriteString(m.listView())
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(StatusErrorStyle.Render(" " + m.status))
		} else {
			b.WriteString(StatusOKStyle.Render(" " + m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder

	title := "Recipe Box"
	if m.filter != "" {
		title = fmt.Sprintf("Recipe Box / %q", m.filter)
	}
	b.WriteString(HeaderStyle.Render(title))
	if m.busy {
		b.WriteString(HelpStyle.Render(" (loading)"))
	}
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(ItemStyle.Render("No recipes found."))
		b.WriteString("\n")
	}
	for i, r := range m.items {
		line := fmt.Sprintf("Recipe ID %d: %s", r.ID, r.Name)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + line))
			b.WriteString("\n")
			b.WriteString(InstructionsStyle.Render(r.Instructions))
		} else {
			b.WriteString(ItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("a: add · d: delete · /: search · r: refresh · L: log out · q: quit"))
	return b.String()
}
