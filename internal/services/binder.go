package services

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidtube/internal/models"
)

// BindOptions configures [Bind].
type BindOptions struct {
	// Dispatch runs fetch results on the sink's owning loop. When nil, profiles are fetched
	// synchronously inside the session callback.
	Dispatch func(func())
	Logger   *log.Logger
}

// binder forwards sessions from a hub to a sink and loads profiles after sign-in.
type binder struct {
	ctx      context.Context
	sink     SessionSink
	profiles ProfileFetcher
	dispatch func(func())
	logger   *log.Logger
	uid      string
}

// Bind subscribes sink to hub. The returned function unsubscribes; call it when the owning scope ends.
func Bind(ctx context.Context, hub AuthSubscriber, sink SessionSink, profiles ProfileFetcher, opts BindOptions) func() {
	b := &binder{
		ctx:      ctx,
		sink:     sink,
		profiles: profiles,
		dispatch: opts.Dispatch,
		logger:   opts.Logger,
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return hub.Subscribe(b.onSession)
}

func (b *binder) onSession(s models.Session) {
	b.uid = s.UID
	b.sink.SetSession(s)

	if !s.SignedIn {
		b.sink.SetProfile(nil)
		b.sink.SetLoading(false)
		return
	}

	b.sink.SetLoading(true)

	if b.dispatch == nil {
		b.deliver(s.UID)(b.profiles.FetchOrCreateProfile(b.ctx, s.UID))
		return
	}

	uid := s.UID
	go func() {
		profile, err := b.profiles.FetchOrCreateProfile(b.ctx, uid)
		b.dispatch(func() { b.deliver(uid)(profile, err) })
	}()
}

// deliver returns a callback that applies a fetch result for uid, ignoring results for a superseded session.
func (b *binder) deliver(uid string) func(*models.Profile, error) {
	return func(profile *models.Profile, err error) {
		if uid != b.uid {
			return
		}
		if err != nil {
			b.logger.Warn("profile fetch failed", "uid", uid, "error", err)
			b.sink.SetProfileError(err)
		} else {
			b.sink.SetProfile(profile)
		}
		b.sink.SetLoading(false)
	}
}
