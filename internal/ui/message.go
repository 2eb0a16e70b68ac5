package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidtube/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	// MsgDispatch carries work from another goroutine (timer expiry, profile fetch) to run on the update loop.
	MsgDispatch MsgKind = iota
	MsgAgeVerified
)

// dispatchMsg is the constructor for [MsgDispatch]
func dispatchMsg(fn func()) Msg {
	return Msg{kind: MsgDispatch, data: fn}
}

type ageVerified struct {
	profile *models.Profile
	err     error
}

// ageVerifiedMsg is the constructor for [MsgAgeVerified]
func ageVerifiedMsg(profile *models.Profile, err error) Msg {
	return Msg{kind: MsgAgeVerified, data: ageVerified{profile, err}}
}
