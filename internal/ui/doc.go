// Package ui implements the vidtube terminal front-end using bubbletea's Elm architecture.
//
// The screen is a side panel of routes next to the current page. Choosing a route goes through the
// navigation coordinator: the panel closes first, a placeholder is shown, and the route changes after
// the configured delay. Every route change is checked by the route guard, which may redirect to sign-in
// or age verification.
//
// The (view) [Model] owns the [Router], the guard, and the coordinator, and mutates them only inside Update.
// Timer expiries and profile fetches finish on other goroutines and are delivered back as [MsgDispatch]
// messages through the program's Send.
//
// Keys: tab toggles the panel, enter opens the selected route, s signs in or out, q quits.
package ui
