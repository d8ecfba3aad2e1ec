package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	journal "io.winapps.traveljournal/internal/models/journal"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		signedIn bool
		want     Page
	}{
		{"root signed out", "/", false, Page{Kind: Landing}},
		{"root signed in", "/", true, Page{Kind: Dashboard}},
		{"explore signed out", "/explore", false, Page{Kind: Explore}},
		{"explore trailing slash", "/explore/", true, Page{Kind: Explore}},
		{"detail signed in", "/entries/abc", true, Page{Kind: Detail, EntryID: "abc"}},
		{"detail signed out", "/entries/abc", false, Page{Kind: Landing}},
		{"detail without id", "/entries/", true, Page{Kind: Dashboard}},
		{"nested detail path", "/entries/abc/def", true, Page{Kind: Dashboard}},
		{"unknown path", "/nowhere", true, Page{Kind: Dashboard}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.signedIn))
		})
	}
}

func TestPageScope(t *testing.T) {
	scope, ok := Page{Kind: Dashboard}.Scope()
	assert.True(t, ok)
	assert.Equal(t, journal.ScopeMine, scope)

	scope, ok = Page{Kind: Explore}.Scope()
	assert.True(t, ok)
	assert.Equal(t, journal.ScopeAll, scope)

	_, ok = Page{Kind: Detail, EntryID: "x"}.Scope()
	assert.False(t, ok)
	_, ok = Page{Kind: Landing}.Scope()
	assert.False(t, ok)
}

func TestNavigatorSignInOut(t *testing.T) {
	n := NewNavigator(false)
	assert.Equal(t, Landing, n.Current().Kind)

	assert.Equal(t, Dashboard, n.SignIn().Kind)
	assert.Equal(t, Detail, n.Follow("/entries/e1").Kind)
	assert.Equal(t, Landing, n.SignOut().Kind)
	assert.Equal(t, Landing, n.Back().Kind, "history is dropped on sign out")
}

func TestNavigatorExploreSurvivesSignOut(t *testing.T) {
	n := NewNavigator(true)
	n.Follow("/explore")

	assert.Equal(t, Explore, n.SignOut().Kind)
}

func TestNavigatorBack(t *testing.T) {
	n := NewNavigator(true)
	n.Follow("/explore")
	n.Follow("/entries/e1")

	assert.Equal(t, Page{Kind: Explore}, n.Back())
	assert.Equal(t, Page{Kind: Dashboard}, n.Back())
	assert.Equal(t, Page{Kind: Dashboard}, n.Back())
}

func TestFollowSamePageAddsNoHistory(t *testing.T) {
	n := NewNavigator(true)
	n.Follow("/explore")
	n.Follow("/explore")

	assert.Equal(t, Dashboard, n.Back().Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "landing", Landing.String())
	assert.Equal(t, "dashboard", Dashboard.String())
	assert.Equal(t, "detail", Detail.String())
	assert.Equal(t, "explore", Explore.String())
}
