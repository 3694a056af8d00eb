package greetcard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMedia blocks in Play until the test sends a result on release.
type fakeMedia struct {
	src     string
	release chan error
	started chan struct{}
	ended   chan struct{}

	mu          sync.Mutex
	pending     bool
	plays       int
	pauses      int
	pauseInPlay bool
	closed      bool
}

func newFakeMedia(src string) *fakeMedia {
	return &fakeMedia{
		src:     src,
		release: make(chan error, 1),
		started: make(chan struct{}, 8),
		ended:   make(chan struct{}, 1),
	}
}

func (m *fakeMedia) Source() string { return m.src }

func (m *fakeMedia) Play(ctx context.Context) error {
	m.mu.Lock()
	m.plays++
	m.pending = true
	m.mu.Unlock()
	m.started <- struct{}{}

	var err error
	select {
	case err = <-m.release:
	case <-ctx.Done():
		err = ctx.Err()
	}

	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
	return err
}

func (m *fakeMedia) Ended() <-chan struct{} { return m.ended }

func (m *fakeMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	if m.pending {
		m.pauseInPlay = true
	}
	return nil
}

func (m *fakeMedia) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *fakeMedia) counts() (plays, pauses int, pauseInPlay bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays, m.pauses, m.pauseInPlay
}

type recordingLogger struct {
	nopLogger
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func waitSettled(t *testing.T, a *AudioController) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.Wait(ctx))
}

func TestAudio_NoSourceIsNoop(t *testing.T) {
	for _, media := range []MediaElement{nil, newFakeMedia("")} {
		a := NewAudioController(media, nil)
		assert.False(t, a.HasSource())
		a.Toggle()
		assert.Equal(t, PlaybackUnstarted, a.State())
		assert.False(t, a.Playing())
		assert.NoError(t, a.Close())
	}
}

func TestAudio_PlayThenPause(t *testing.T) {
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, nil)

	a.Toggle()
	assert.Equal(t, PlaybackStarting, a.State())
	assert.True(t, a.Playing(), "a play in flight already shows as playing")

	<-media.started
	media.release <- nil
	waitSettled(t, a)
	assert.Equal(t, PlaybackPlaying, a.State())

	a.Toggle()
	assert.Equal(t, PlaybackPaused, a.State())
	plays, pauses, _ := media.counts()
	assert.Equal(t, 1, plays)
	assert.Equal(t, 1, pauses)

	a.Toggle()
	<-media.started
	media.release <- nil
	waitSettled(t, a)
	assert.Equal(t, PlaybackPlaying, a.State())
}

func TestAudio_TrackEndReturnsToPaused(t *testing.T) {
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, nil)

	a.Toggle()
	<-media.started
	media.release <- nil
	waitSettled(t, a)
	require.Equal(t, PlaybackPlaying, a.State())

	a.Poll()
	assert.Equal(t, PlaybackPlaying, a.State(), "no end reported yet")

	media.ended <- struct{}{}
	a.Poll()
	assert.Equal(t, PlaybackPaused, a.State())
	assert.False(t, a.Playing())
	_, pauses, _ := media.counts()
	assert.Equal(t, 0, pauses, "the element stopped on its own")

	a.Toggle()
	assert.Equal(t, PlaybackStarting, a.State())
	<-media.started
	plays, _, _ := media.counts()
	assert.Equal(t, 2, plays)
	media.release <- nil
	waitSettled(t, a)
	assert.Equal(t, PlaybackPlaying, a.State())
}

func TestAudio_EndBeforeReplayIsDropped(t *testing.T) {
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, nil)

	a.Toggle()
	<-media.started
	media.release <- nil
	waitSettled(t, a)
	a.Toggle()
	require.Equal(t, PlaybackPaused, a.State())

	media.ended <- struct{}{}
	a.Toggle()
	<-media.started
	media.release <- nil
	waitSettled(t, a)
	a.Poll()
	assert.Equal(t, PlaybackPlaying, a.State())
}

func TestAudio_RapidDoubleToggleNeverPausesInFlightPlay(t *testing.T) {
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, nil)

	a.Toggle()
	<-media.started
	a.Toggle()
	assert.Equal(t, PlaybackStarting, a.State())
	assert.False(t, a.Playing())

	_, pauses, _ := media.counts()
	assert.Zero(t, pauses, "pause must wait for the play to settle")

	// Poll is a no-op until the play returns.
	a.Poll()
	assert.Equal(t, PlaybackStarting, a.State())

	media.release <- nil
	waitSettled(t, a)

	assert.Equal(t, PlaybackPaused, a.State())
	_, pauses, pauseInPlay := media.counts()
	assert.Equal(t, 1, pauses)
	assert.False(t, pauseInPlay)
}

func TestAudio_TripleToggleEndsPlaying(t *testing.T) {
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, nil)

	a.Toggle()
	<-media.started
	a.Toggle()
	a.Toggle()
	media.release <- nil
	waitSettled(t, a)

	assert.Equal(t, PlaybackPlaying, a.State())
	_, pauses, _ := media.counts()
	assert.Zero(t, pauses)
}

func TestAudio_AbortIsSilentFailureIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, logger)

	a.Toggle()
	<-media.started
	media.release <- fmt.Errorf("superseded: %w", ErrPlaybackAborted)
	waitSettled(t, a)
	assert.Equal(t, PlaybackPaused, a.State())
	assert.Empty(t, logger.errors)

	a.Toggle()
	<-media.started
	media.release <- errors.New("device lost")
	waitSettled(t, a)
	assert.Equal(t, PlaybackPaused, a.State())
	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "device lost")
}

func TestAudio_CloseAbortsPendingPlay(t *testing.T) {
	logger := &recordingLogger{}
	media := newFakeMedia("song.mp3")
	a := NewAudioController(media, logger)

	a.Toggle()
	<-media.started
	require.NoError(t, a.Close())

	assert.Equal(t, PlaybackPaused, a.State())
	assert.True(t, media.closed)
	assert.Empty(t, logger.errors, "cancellation is not an error")
}

func TestPlaybackState_String(t *testing.T) {
	assert.Equal(t, "starting", PlaybackStarting.String())
	assert.Equal(t, "paused", PlaybackPaused.String())
	assert.Equal(t, "PlaybackState(9)", PlaybackState(9).String())
}
