// Package ui is the terminal frontend: a stack of views over one
// shared API client, session, and cache.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/astrovine/horizon/internal/api"
	"github.com/astrovine/horizon/internal/auth"
	"github.com/astrovine/horizon/internal/cache"
	"github.com/astrovine/horizon/internal/config"
	"github.com/astrovine/horizon/internal/ui/compose"
	"github.com/astrovine/horizon/internal/ui/login"
	"github.com/astrovine/horizon/internal/ui/messages"
	"github.com/astrovine/horizon/internal/ui/postlist"
	"github.com/astrovine/horizon/internal/ui/postview"
	"github.com/astrovine/horizon/internal/ui/profile"
	"github.com/astrovine/horizon/internal/ui/register"
	"github.com/astrovine/horizon/internal/ui/reply"
	"github.com/astrovine/horizon/internal/ui/statusbar"
	"github.com/astrovine/horizon/internal/ui/toasts"
	"github.com/astrovine/horizon/internal/ui/userprofile"
)

type viewKind int

const (
	viewList viewKind = iota
	viewPost
	viewLogin
	viewRegister
	viewCompose
	viewReply
	viewProfile
	viewUser
)

// App is the root model. Views live on a navigation stack; the post
// list is always at the bottom. Each kind has a single slot, so
// pushing a kind already on the stack replaces it.
type App struct {
	cfg     config.Config
	client  *api.Client
	cache   *cache.DB
	session *auth.Session

	stack []viewKind

	list postlist.Model
	post postview.Model
	lgn  login.Model
	reg  register.Model
	comp compose.Model
	rep  reply.Model
	prof profile.Model
	user userprofile.Model

	status statusbar.Model
	toasts toasts.Model

	width  int
	height int
}

// NewApp wires the root model.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB, session *auth.Session) App {
	return App{
		cfg:     cfg,
		client:  client,
		cache:   db,
		session: session,
		stack:   []viewKind{viewList},
		list:    postlist.New(cfg, client, db, session),
		status:  statusbar.New(),
		toasts:  toasts.New(cfg.ToastDuration),
	}
}

// Init restores the saved session and loads the first page.
func (a App) Init() tea.Cmd {
	session := a.session
	client := a.client
	restore := func() tea.Msg {
		session.Restore(context.Background(), client)
		return messages.SessionRestoredMsg{}
	}
	return tea.Batch(restore, a.list.Init())
}

func (a App) active() viewKind {
	return a.stack[len(a.stack)-1]
}

func (a *App) push(kind viewKind) {
	kept := a.stack[:0]
	for _, k := range a.stack {
		if k != kind {
			kept = append(kept, k)
		}
	}
	a.stack = append(kept, kind)
}

func (a *App) pop() {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
	}
}

func (a *App) popKind(kind viewKind) {
	kept := a.stack[:0]
	for _, k := range a.stack {
		if k != kind {
			kept = append(kept, k)
		}
	}
	a.stack = kept
	if len(a.stack) == 0 {
		a.stack = []viewKind{viewList}
	}
}

// textEntry reports whether the active view is capturing free-form
// typing, which disables the single-letter global keys.
func (a App) textEntry() bool {
	switch a.active() {
	case viewLogin, viewRegister, viewCompose, viewReply:
		return true
	case viewList:
		return a.list.Searching()
	case viewProfile:
		return a.prof.Editing()
	}
	return false
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The toast queue and status bar see everything.
	var cmd tea.Cmd
	a.toasts, cmd = a.toasts.Update(msg)
	cmds = append(cmds, cmd)
	a.status, cmd = a.status.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeAll()
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if handled, model, cmd := a.handleGlobalKey(msg); handled {
			return model, tea.Batch(append(cmds, cmd)...)
		}

	case messages.SessionRestoredMsg:
		if a.session.LoggedIn() {
			a.status.SetUser(a.session.User.Username)
		}
		return a, tea.Batch(cmds...)

	case messages.OpenPostMsg:
		a.post = postview.New(msg.PostID, a.cfg, a.client, a.cache, a.session)
		a.push(viewPost)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.post.Init())...)

	case messages.OpenUserMsg:
		// Own profile opens the editable view instead.
		if a.session.LoggedIn() && a.session.User.ID == msg.UserID {
			return a.openProfile(cmds)
		}
		a.user = userprofile.New(msg.UserID, a.cfg, a.client, a.cache, a.session)
		a.push(viewUser)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.user.Init())...)

	case messages.OpenLoginMsg:
		a.lgn = login.New(a.session, a.client)
		a.push(viewLogin)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.lgn.Init())...)

	case messages.OpenRegisterMsg:
		a.reg = register.New(a.session, a.client)
		a.popKind(viewLogin)
		a.push(viewRegister)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.reg.Init())...)

	case messages.OpenComposeMsg:
		if !a.session.LoggedIn() {
			return a.requireLogin(cmds)
		}
		a.comp = compose.New(a.client, msg.Edit)
		a.push(viewCompose)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.comp.Init())...)

	case messages.OpenReplyMsg:
		if !a.session.LoggedIn() {
			return a.requireLogin(cmds)
		}
		a.rep = reply.New(a.client, msg.PostID, msg.ParentID)
		a.push(viewReply)
		a.resizeAll()
		return a, tea.Batch(append(cmds, a.rep.Init())...)

	case messages.OpenProfileMsg:
		if !a.session.LoggedIn() {
			return a.requireLogin(cmds)
		}
		return a.openProfile(cmds)

	case messages.GoBackMsg:
		a.pop()
		return a, tea.Batch(cmds...)

	case messages.SwitchTabMsg:
		a.status.SetActiveTab(msg.Tab)
		a.list, cmd = a.list.Update(msg)
		return a, tea.Batch(append(cmds, cmd)...)

	case messages.LoginResultMsg:
		if msg.Err == nil {
			a.popKind(viewLogin)
			a.popKind(viewRegister)
			a.status.SetUser(a.session.User.Username)
			welcome := a.toasts.Push("Signed in as @"+a.session.User.Username, messages.ToastSuccess)
			// The feed tabs depend on who is signed in.
			a.list, cmd = a.list.Update(messages.SwitchTabMsg{Tab: a.list.Tab()})
			return a, tea.Batch(append(cmds, welcome, cmd)...)
		}

	case messages.ForceLogoutMsg:
		a.session.Logout()
		a.status.SetUser("")
		a.stack = []viewKind{viewList}
		expired := a.toasts.Push("Signed out", messages.ToastDefault)
		a.list, cmd = a.list.Update(messages.SwitchTabMsg{Tab: messages.TabHome})
		a.status.SetActiveTab(messages.TabHome)
		return a, tea.Batch(append(cmds, expired, cmd)...)

	case messages.PostCreatedMsg:
		if msg.Err == nil {
			a.popKind(viewCompose)
			a.list, cmd = a.list.Update(msg)
			posted := a.toasts.Push("Posted", messages.ToastSuccess)
			return a, tea.Batch(append(cmds, cmd, posted)...)
		}

	case messages.PostUpdatedMsg:
		if msg.Err == nil {
			a.popKind(viewCompose)
			a.list, cmd = a.list.Update(msg)
			cmds = append(cmds, cmd)
			if a.onStack(viewPost) {
				a.post, cmd = a.post.Update(msg)
				cmds = append(cmds, cmd)
			}
			saved := a.toasts.Push("Post updated", messages.ToastSuccess)
			return a, tea.Batch(append(cmds, saved)...)
		}

	case messages.PostDeletedMsg:
		if msg.Err == nil && a.active() == viewPost && a.post.PostID() == msg.PostID {
			a.pop()
		}
		if a.maybeForceLogout(msg.Err, &cmds) {
			return a, tea.Batch(cmds...)
		}
		a.list, cmd = a.list.Update(msg)
		return a, tea.Batch(append(cmds, cmd)...)

	case messages.CommentAddedMsg:
		if msg.Err == nil {
			a.popKind(viewReply)
			if a.onStack(viewPost) {
				a.post, cmd = a.post.Update(msg)
				cmds = append(cmds, cmd)
			}
			return a, tea.Batch(cmds...)
		}

	case messages.VoteResultMsg:
		// The confirm or rollback must reach the store holding the
		// pending toggle even when another view has since covered it.
		if a.active() != viewList {
			a.list, cmd = a.list.Update(msg)
			cmds = append(cmds, cmd)
		}
		if a.onStack(viewPost) && a.active() != viewPost {
			a.post, cmd = a.post.Update(msg)
			cmds = append(cmds, cmd)
		}
		if a.onStack(viewUser) && a.active() != viewUser {
			a.user, cmd = a.user.Update(msg)
			cmds = append(cmds, cmd)
		}

	case messages.CommentLikeResultMsg:
		if a.onStack(viewPost) && a.active() != viewPost {
			a.post, cmd = a.post.Update(msg)
			cmds = append(cmds, cmd)
		}

	case messages.PostsLoadedMsg:
		// The list keeps loading even when another view sits on top.
		if a.maybeForceLogout(msg.Err, &cmds) {
			return a, tea.Batch(cmds...)
		}
		a.list, cmd = a.list.Update(msg)
		return a, tea.Batch(append(cmds, cmd)...)

	case messages.ProfileSavedMsg:
		if msg.Err == nil && msg.Profile != nil {
			a.status.SetUser(msg.Profile.Username)
		}
	}

	if err := resultError(msg); err != nil && a.maybeForceLogout(err, &cmds) {
		return a, tea.Batch(cmds...)
	}

	cmds = append(cmds, a.routeToActive(msg))
	return a, tea.Batch(cmds...)
}

func (a *App) openProfile(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	a.prof = profile.New(a.session, a.client, a.cache)
	a.push(viewProfile)
	a.resizeAll()
	return a, tea.Batch(append(cmds, a.prof.Init())...)
}

func (a *App) requireLogin(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	a.lgn = login.New(a.session, a.client)
	a.push(viewLogin)
	a.resizeAll()
	return a, tea.Batch(append(cmds, a.lgn.Init())...)
}

func (a App) onStack(kind viewKind) bool {
	for _, k := range a.stack {
		if k == kind {
			return true
		}
	}
	return false
}

// maybeForceLogout turns an expired-credential error into a clean
// logout and a login prompt.
func (a *App) maybeForceLogout(err error, cmds *[]tea.Cmd) bool {
	if err == nil || !api.IsAuthError(err) || !a.session.LoggedIn() {
		return false
	}
	logrus.Info("credentials rejected, forcing logout")
	a.session.Logout()
	a.status.SetUser("")
	a.stack = []viewKind{viewList}
	*cmds = append(*cmds, a.toasts.Push("Session expired, please sign in again", messages.ToastError))
	a.lgn = login.New(a.session, a.client)
	a.push(viewLogin)
	a.resizeAll()
	*cmds = append(*cmds, a.lgn.Init())
	return true
}

// resultError pulls the error out of the request result messages so
// expired sessions are caught no matter which view fired the request.
func resultError(msg tea.Msg) error {
	switch msg := msg.(type) {
	case messages.PostsLoadedMsg:
		return msg.Err
	case messages.PostDetailLoadedMsg:
		return msg.Err
	case messages.VoteResultMsg:
		return msg.Err
	case messages.CommentLikeResultMsg:
		return msg.Err
	case messages.CommentAddedMsg:
		return msg.Err
	case messages.PostCreatedMsg:
		return msg.Err
	case messages.PostUpdatedMsg:
		return msg.Err
	case messages.UserLoadedMsg:
		return msg.Err
	case messages.FollowResultMsg:
		return msg.Err
	case messages.ProfileSavedMsg:
		return msg.Err
	}
	return nil
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, a, tea.Quit
	}
	if a.textEntry() {
		if msg.String() == "esc" && a.active() != viewList && a.active() != viewProfile {
			a.pop()
			return true, a, nil
		}
		return false, a, nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		return true, a, tea.Quit

	case key.Matches(msg, globalKeys.Back):
		if len(a.stack) > 1 {
			a.pop()
		}
		return true, a, nil

	case key.Matches(msg, globalKeys.Tabs):
		tab := tabForDigit(msg.String())
		if tab == messages.TabFollowing || tab == messages.TabMine {
			if !a.session.LoggedIn() {
				model, cmd := a.requireLogin(nil)
				return true, model, cmd
			}
		}
		a.stack = []viewKind{viewList}
		a.status.SetActiveTab(tab)
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(messages.SwitchTabMsg{Tab: tab})
		return true, a, cmd

	case key.Matches(msg, globalKeys.Dismiss):
		if a.toasts.Active() {
			a.toasts.Dismiss()
			return true, a, nil
		}
		return false, a, nil

	case key.Matches(msg, globalKeys.Compose):
		model, cmd := a.updateSelf(messages.OpenComposeMsg{})
		return true, model, cmd

	case key.Matches(msg, globalKeys.Login):
		if !a.session.LoggedIn() {
			model, cmd := a.requireLogin(nil)
			return true, model, cmd
		}
		return false, a, nil

	case key.Matches(msg, globalKeys.Profile):
		// The detail views route P to the relevant author instead.
		if a.active() == viewList {
			model, cmd := a.updateSelf(messages.OpenProfileMsg{})
			return true, model, cmd
		}
		return false, a, nil
	}
	return false, a, nil
}

// updateSelf feeds a synthesized message back through Update.
func (a App) updateSelf(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a.Update(msg)
}

func tabForDigit(s string) messages.Tab {
	switch s {
	case "2":
		return messages.TabFollowing
	case "3":
		return messages.TabExplore
	case "4":
		return messages.TabMine
	default:
		return messages.TabHome
	}
}

func (a *App) routeToActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active() {
	case viewList:
		a.list, cmd = a.list.Update(msg)
	case viewPost:
		a.post, cmd = a.post.Update(msg)
	case viewLogin:
		a.lgn, cmd = a.lgn.Update(msg)
	case viewRegister:
		a.reg, cmd = a.reg.Update(msg)
	case viewCompose:
		a.comp, cmd = a.comp.Update(msg)
	case viewReply:
		a.rep, cmd = a.rep.Update(msg)
	case viewProfile:
		a.prof, cmd = a.prof.Update(msg)
	case viewUser:
		a.user, cmd = a.user.Update(msg)
	}
	return cmd
}

func (a *App) resizeAll() {
	contentHeight := a.height - 1
	if contentHeight < 1 {
		contentHeight = 1
	}
	// Views are constructed when pushed; the bubbles widgets inside a
	// zero-value child are not safe to size.
	for _, k := range a.stack {
		switch k {
		case viewList:
			a.list.SetSize(a.width, contentHeight)
		case viewPost:
			a.post.SetSize(a.width, contentHeight)
		case viewLogin:
			a.lgn.SetSize(a.width, contentHeight)
		case viewRegister:
			a.reg.SetSize(a.width, contentHeight)
		case viewCompose:
			a.comp.SetSize(a.width, contentHeight)
		case viewReply:
			a.rep.SetSize(a.width, contentHeight)
		case viewProfile:
			a.prof.SetSize(a.width, contentHeight)
		case viewUser:
			a.user.SetSize(a.width, contentHeight)
		}
	}
	a.status.SetSize(a.width)
	a.toasts.SetSize(a.width)
}

// View renders the active view with the status bar pinned below and
// any toasts stacked on top.
func (a App) View() string {
	var content string
	switch a.active() {
	case viewList:
		content = a.list.View()
	case viewPost:
		content = a.post.View()
	case viewLogin:
		content = a.lgn.View()
	case viewRegister:
		content = a.reg.View()
	case viewCompose:
		content = a.comp.View()
	case viewReply:
		content = a.rep.View()
	case viewProfile:
		content = a.prof.View()
	case viewUser:
		content = a.user.View()
	}

	contentHeight := a.height - 1
	if contentHeight < 1 {
		contentHeight = 1
	}
	body := lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	if a.toasts.Active() {
		overlay := a.toasts.View()
		body = lipgloss.JoinVertical(lipgloss.Left, overlay, body)
		body = lipgloss.NewStyle().MaxHeight(contentHeight).Render(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, a.status.View())
}
