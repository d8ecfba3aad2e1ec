// Package pages decides which page a path shows for a given sign-in state.
package pages

import (
	"strings"

	journal "io.winapps.traveljournal/internal/models/journal"
)

type Kind int

const (
	Landing Kind = iota
	Dashboard
	Detail
	Explore
)

func (k Kind) String() string {
	switch k {
	case Dashboard:
		return "dashboard"
	case Detail:
		return "detail"
	case Explore:
		return "explore"
	default:
		return "landing"
	}
}

// Page is a resolved view. EntryID is only set for Detail.
type Page struct {
	Kind    Kind
	EntryID string
}

// Scope is the list fetch the page starts with. Detail and Landing start
// with none.
func (p Page) Scope() (journal.Scope, bool) {
	switch p.Kind {
	case Dashboard:
		return journal.ScopeMine, true
	case Explore:
		return journal.ScopeAll, true
	default:
		return "", false
	}
}

// Path is the canonical URL of p.
func (p Page) Path() string {
	switch p.Kind {
	case Detail:
		return "/entries/" + p.EntryID
	case Explore:
		return "/explore"
	default:
		return "/"
	}
}

// Resolve maps a path to a page. Signed-out visitors land on Landing for
// every page except Explore; signed-in users see the Dashboard at the root.
func Resolve(path string, signedIn bool) Page {
	path = "/" + strings.Trim(path, "/")

	switch {
	case path == "/explore":
		return Page{Kind: Explore}
	case strings.HasPrefix(path, "/entries/"):
		id := strings.TrimPrefix(path, "/entries/")
		if !signedIn || id == "" || strings.Contains(id, "/") {
			return home(signedIn)
		}
		return Page{Kind: Detail, EntryID: id}
	default:
		return home(signedIn)
	}
}

func home(signedIn bool) Page {
	if signedIn {
		return Page{Kind: Dashboard}
	}
	return Page{Kind: Landing}
}

// Navigator tracks the current page and history of one browser session.
type Navigator struct {
	signedIn bool
	current  Page
	history  []Page
}

func NewNavigator(signedIn bool) *Navigator {
	return &Navigator{signedIn: signedIn, current: home(signedIn)}
}

func (n *Navigator) Current() Page { return n.current }

// SignIn moves a visitor from Landing to the Dashboard.
func (n *Navigator) SignIn() Page {
	n.signedIn = true
	return n.push(Resolve(n.current.Path(), true))
}

// SignOut drops the history and returns to Landing unless on Explore.
func (n *Navigator) SignOut() Page {
	n.signedIn = false
	n.history = nil
	n.current = Resolve(n.current.Path(), false)
	return n.current
}

// Follow navigates to path.
func (n *Navigator) Follow(path string) Page {
	return n.push(Resolve(path, n.signedIn))
}

// Back returns to the previous page, re-resolved for the current sign-in
// state. With no history the current page stays.
func (n *Navigator) Back() Page {
	if len(n.history) == 0 {
		return n.current
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = Resolve(prev.Path(), n.signedIn)
	return n.current
}

func (n *Navigator) push(p Page) Page {
	if p != n.current {
		n.history = append(n.history, n.current)
		n.current = p
	}
	return n.current
}
