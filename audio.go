package greetcard

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPlaybackAborted is returned by MediaElement.Play when the play was
	// interrupted, by Close or a superseding request. It is not a failure.
	ErrPlaybackAborted = errors.New("playback aborted")
	ErrNoMediaSource   = errors.New("no media source")
)

// MediaElement is an audio source with an asynchronous start. Play blocks
// until audio is actually running or fails; Pause takes effect at once.
// Ended receives once each time playback runs off the end of the track; the
// next Play starts again from the beginning.
type MediaElement interface {
	Source() string
	Play(ctx context.Context) error
	Pause() error
	Ended() <-chan struct{}
	Close() error
}

type PlaybackState int

const (
	PlaybackUnstarted PlaybackState = iota
	PlaybackStarting
	PlaybackPlaying
	PlaybackStopping
	PlaybackPaused
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackUnstarted:
		return "unstarted"
	case PlaybackStarting:
		return "starting"
	case PlaybackPlaying:
		return "playing"
	case PlaybackStopping:
		return "stopping"
	case PlaybackPaused:
		return "paused"
	}
	return fmt.Sprintf("PlaybackState(%d)", int(s))
}

// AudioController serialises play and pause on one MediaElement. A pause is
// never issued while a play is still in flight: toggling during Starting only
// flips the queued intent, which is honoured once the play settles.
//
// All methods must be called from the frame thread.
type AudioController struct {
	media  MediaElement
	logger Logger

	state       PlaybackState
	pauseQueued bool
	cancel      context.CancelFunc
	settled     chan error
}

func NewAudioController(media MediaElement, logger Logger) *AudioController {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &AudioController{
		media:   media,
		logger:  logger,
		settled: make(chan error, 1),
	}
}

func (a *AudioController) State() PlaybackState {
	return a.state
}

// Playing reports what the music button shows. A play in flight already
// counts, unless a pause has been queued behind it.
func (a *AudioController) Playing() bool {
	switch a.state {
	case PlaybackStarting:
		return !a.pauseQueued
	case PlaybackPlaying:
		return true
	}
	return false
}

func (a *AudioController) HasSource() bool {
	return a.media != nil && a.media.Source() != ""
}

// Toggle is the music button. It is a no-op without a media source.
func (a *AudioController) Toggle() {
	if !a.HasSource() {
		return
	}
	switch a.state {
	case PlaybackUnstarted, PlaybackPaused:
		a.startPlay()
	case PlaybackStarting:
		a.pauseQueued = !a.pauseQueued
	case PlaybackPlaying:
		a.pause()
	case PlaybackStopping:
		// pause is synchronous; nothing to queue behind it
	}
}

func (a *AudioController) startPlay() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.state = PlaybackStarting
	a.pauseQueued = false
	// an end reported before this play belongs to the previous run
	select {
	case <-a.media.Ended():
	default:
	}

	media := a.media
	settled := a.settled
	go func() {
		settled <- media.Play(ctx)
	}()
}

func (a *AudioController) pause() {
	a.state = PlaybackStopping
	if err := a.media.Pause(); err != nil {
		a.logger.Errorf("audio pause failed: %v", err)
	}
	a.state = PlaybackPaused
}

// Poll settles a finished play and notices the end of the track. The audio
// system calls it once per frame.
func (a *AudioController) Poll() {
	switch a.state {
	case PlaybackStarting:
		select {
		case err := <-a.settled:
			a.settle(err)
		default:
		}
	case PlaybackPlaying:
		select {
		case <-a.media.Ended():
			a.logger.Debugf("audio: track ended")
			a.state = PlaybackPaused
		default:
		}
	}
}

// Wait blocks until no play is in flight or ctx is done.
func (a *AudioController) Wait(ctx context.Context) error {
	if a.state != PlaybackStarting {
		return nil
	}
	select {
	case err := <-a.settled:
		a.settle(err)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AudioController) settle(err error) {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	queued := a.pauseQueued
	a.pauseQueued = false

	if err != nil {
		if !isAbort(err) {
			a.logger.Errorf("audio playback failed: %v", err)
		}
		a.state = PlaybackPaused
		return
	}

	a.state = PlaybackPlaying
	if queued {
		a.pause()
	}
}

func isAbort(err error) bool {
	return errors.Is(err, ErrPlaybackAborted) || errors.Is(err, context.Canceled)
}

// Close aborts any play in flight, waits for it to return and releases the
// media element.
func (a *AudioController) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.state == PlaybackStarting {
		a.settle(<-a.settled)
	}
	if a.media == nil {
		return nil
	}
	return a.media.Close()
}

// AudioModule installs the controller. With Muted set, or an empty URL, the
// controller has no source and the button does nothing.
type AudioModule struct {
	URL   string
	Muted bool
	// Media overrides the element built from URL; tests inject fakes here.
	Media MediaElement
}

func (mod AudioModule) Install(app *App, cmd *Commands) {
	media := mod.Media
	if media == nil && !mod.Muted && mod.URL != "" {
		media = NewBeepMediaElement(mod.URL, app.Logger())
	}
	ctrl := NewAudioController(media, app.Logger())
	cmd.AddResources(ctrl)
	app.OnShutdown(func() {
		if err := ctrl.Close(); err != nil {
			app.Logger().Warnf("close audio: %v", err)
		}
	})
	app.UseSystem(
		System(audioPollSystem).
			InStage(PreUpdate),
	)
}

func audioPollSystem(audio *AudioController) {
	audio.Poll()
}
