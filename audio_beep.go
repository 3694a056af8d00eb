package greetcard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// BeepMediaElement plays a remote MP3 through the system speaker. The first
// Play downloads and decodes the track; later plays resume the paused stream,
// or rewind it once it has run to the end.
type BeepMediaElement struct {
	url    string
	client *http.Client
	logger Logger
	ended  chan struct{}

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	// finished is guarded by the speaker lock; the end callback runs under it.
	finished bool
}

func NewBeepMediaElement(url string, logger Logger) *BeepMediaElement {
	return &BeepMediaElement{
		url:    url,
		client: &http.Client{Timeout: 2 * time.Minute},
		logger: logger,
		ended:  make(chan struct{}, 1),
	}
}

func (m *BeepMediaElement) Ended() <-chan struct{} {
	return m.ended
}

// track wraps the stream so the speaker reports when it runs out.
func (m *BeepMediaElement) track() beep.Streamer {
	return beep.Seq(m.streamer, beep.Callback(func() {
		m.finished = true
		select {
		case m.ended <- struct{}{}:
		default:
		}
	}))
}

func (m *BeepMediaElement) Source() string {
	return m.url
}

func (m *BeepMediaElement) Play(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl != nil {
		speaker.Lock()
		restart := m.finished
		if restart {
			if err := m.streamer.Seek(0); err != nil {
				speaker.Unlock()
				return fmt.Errorf("rewind %s: %w", m.url, err)
			}
			m.finished = false
			m.ctrl.Streamer = m.track()
		}
		m.ctrl.Paused = false
		speaker.Unlock()
		if restart {
			// the mixer drops streamers once they are drained
			speaker.Play(m.ctrl)
		}
		return nil
	}

	data, err := m.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrPlaybackAborted, ctx.Err())
		}
		return err
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode %s: %w", m.url, err)
	}
	if ctx.Err() != nil {
		streamer.Close()
		return fmt.Errorf("%w: %w", ErrPlaybackAborted, ctx.Err())
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	m.streamer = streamer
	m.ctrl = &beep.Ctrl{Streamer: m.track()}
	speaker.Play(m.ctrl)
	m.logger.Infof("audio: playing %s (%d Hz)", m.url, format.SampleRate)
	return nil
}

func (m *BeepMediaElement) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", m.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", m.url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.url, err)
	}
	return data, nil
}

func (m *BeepMediaElement) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return nil
	}
	speaker.Lock()
	m.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (m *BeepMediaElement) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streamer == nil {
		return nil
	}
	speaker.Clear()
	err := m.streamer.Close()
	m.streamer = nil
	m.ctrl = nil
	return err
}
