package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidtube/internal/guard"
	"github.com/desertthunder/vidtube/internal/i18n"
)

var _ list.Item = navItem{}

// navItem is a side panel entry linking to a route.
type navItem struct {
	title string
	path  string
}

func (i navItem) FilterValue() string { return i.title }
func (i navItem) Title() string       { return i.title }
func (i navItem) Description() string { return i.path }

// navRoutes are the side panel destinations, keyed by message id.
var navRoutes = []struct{ id, path string }{
	{"nav_home", guard.RouteHome},
	{"nav_trending", guard.RouteTrending},
	{"nav_search", guard.RouteSearch},
	{"nav_subscriptions", "/subscriptions"},
	{"nav_library", "/library"},
	{"nav_history", "/history"},
	{"nav_settings", "/settings"},
	{"nav_verify_age", guard.RouteVerifyAge},
	{"nav_login", guard.RouteLogin},
}

func navItems(tr *i18n.Translator) []list.Item {
	items := make([]list.Item, len(navRoutes))
	for i, r := range navRoutes {
		items[i] = navItem{title: tr.T(r.id, nil), path: r.path}
	}
	return items
}

func newPanel(tr *i18n.Translator) list.Model {
	panel := list.New(navItems(tr), list.NewDefaultDelegate(), 0, 0)
	panel.Title = tr.T("panel_title", nil)
	panel.SetFilteringEnabled(false)
	panel.SetShowHelp(false)
	panel.SetShowStatusBar(false)
	panel.KeyMap.Quit.SetEnabled(false)
	panel.KeyMap.ForceQuit.SetEnabled(false)
	return panel
}
