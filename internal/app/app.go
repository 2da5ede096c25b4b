// Package app wires the camera, the hand detector, the translator session,
// persistence and speech into the running SignSpeak application.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/config"
	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/metrics"
	"github.com/ayusman/signspeak/internal/plugin"
	"github.com/ayusman/signspeak/internal/store"
	"github.com/ayusman/signspeak/internal/translator"
)

// ErrNoSpeaker is returned by Speak when no speech output is configured.
var ErrNoSpeaker = errors.New("no speaker configured")

// Options holds the collaborators of an App. Zero values are replaced with
// the production implementations built from Config.
type Options struct {
	Config   config.Config
	Store    *store.Store
	Metrics  *metrics.Metrics
	Camera   capture.Camera
	Detector detector.Detector
	Speaker  plugin.Speaker
	Now      func() time.Time
	// NewID generates store session IDs (default uuid.NewString).
	NewID func() string
}

// App is the main application that turns camera frames into translated text.
type App struct {
	config   config.Config
	store    *store.Store
	metrics  *metrics.Metrics
	camera   capture.Camera
	detector detector.Detector
	speaker  plugin.Speaker
	session  *translator.Session

	pluginMgr *plugin.Manager
	newID     func() string

	// frameMu serializes frames with Clear so that a commit never lands in a
	// store session that has already ended.
	frameMu sync.Mutex

	mu        sync.RWMutex
	enabled   bool
	sessionID string
	latest    []byte
	stopCh    chan struct{}
	doneCh    chan struct{}
	onFrame   []func(translator.FrameResult)
	onCommit  []func(translator.Token)

	log *logrus.Entry
}

// New creates an App and opens its first store session.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	a := &App{
		config:    cfg,
		store:     opts.Store,
		metrics:   opts.Metrics,
		camera:    opts.Camera,
		detector:  opts.Detector,
		speaker:   opts.Speaker,
		pluginMgr: plugin.NewManager(cfg.Plugins.Dir),
		newID:     opts.NewID,
		enabled:   true,
		log:       logrus.WithField("component", "app"),
	}

	if a.newID == nil {
		a.newID = uuid.NewString
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(capture.Config{
			Device: cfg.Camera.Device,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Camera.FPS,
		})
	}

	if a.detector == nil {
		mp, err := detector.NewMediaPipeDetector(detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConfidence,
		})
		if err != nil {
			a.log.WithError(err).Warn("MediaPipe not available, using mock detector")
			a.detector = detector.NewMockDetector()
		} else {
			a.log.Info("using MediaPipe hand detection")
			a.detector = mp
		}
	}

	if a.speaker == nil {
		// Speech blocks until playback ends, so it does not share the
		// general plugin deadline.
		speechExec := plugin.NewExecutor(cfg.Plugins.SpeechTimeout())
		a.speaker = plugin.NewPluginSpeaker(a.pluginMgr, speechExec, cfg.Plugins.Speech)
	}

	a.session = translator.NewSession(translator.Options{
		Now:      opts.Now,
		OnCommit: a.handleCommit,
	})

	id, err := a.beginSession()
	if err != nil {
		return nil, err
	}
	a.sessionID = id

	return a, nil
}

// beginSession records a new session in the store and returns its ID.
func (a *App) beginSession() (string, error) {
	id := a.newID()
	if a.store == nil {
		return id, nil
	}
	if err := a.store.Sessions().Create(&store.Session{ID: id}); err != nil {
		return "", err
	}
	a.log.WithField("session", id).Info("session started")
	return id, nil
}

// handleCommit runs under the translator session lock for every committed
// token. It must not call back into the session.
func (a *App) handleCommit(tok translator.Token) {
	if a.metrics != nil {
		a.metrics.ObserveToken(tok)
	}

	a.mu.RLock()
	sessionID := a.sessionID
	listeners := a.onCommit
	a.mu.RUnlock()

	if a.store != nil {
		err := a.store.Tokens().Create(&store.Token{
			ID:        tok.ID,
			SessionID: sessionID,
			Text:      tok.Text,
			Gesture:   tok.Gesture.String(),
			Hand:      tok.Hand,
			CreatedAt: tok.Timestamp,
		})
		if err != nil {
			a.log.WithError(err).WithField("token", tok.Text).Error("failed to persist token")
		}
	}

	for _, fn := range listeners {
		fn(tok)
	}
}

// OnFrame registers fn to receive every processed frame result.
func (a *App) OnFrame(fn func(translator.FrameResult)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = append(a.onFrame, fn)
}

// OnCommit registers fn to receive every committed token.
func (a *App) OnCommit(fn func(translator.Token)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onCommit = append(a.onCommit, fn)
}

// SetEnabled enables or disables recognition. While disabled, the pipeline
// skips frames entirely.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.log.WithField("enabled", enabled).Info("detection toggled")
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SessionID returns the ID of the store session receiving commits.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Snapshot returns the current transcript, history and stats.
func (a *App) Snapshot() translator.Snapshot {
	return a.session.Snapshot()
}

// Clear empties the transcript and starts a new store session. The old
// session is ended only once its successor exists; otherwise commits keep
// going to the old, still open, session.
func (a *App) Clear() {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	a.session.Clear()

	id, err := a.beginSession()
	if err != nil {
		a.log.WithError(err).Error("failed to start new session")
	} else {
		old := a.SessionID()
		a.mu.Lock()
		a.sessionID = id
		a.mu.Unlock()

		if a.store != nil {
			if err := a.store.Sessions().End(old, time.Now()); err != nil {
				a.log.WithError(err).WithField("session", old).Warn("failed to end session")
			}
		}
	}

	if a.metrics != nil {
		a.metrics.Clears.Inc()
	}
}

// Speak reads the current transcript aloud.
func (a *App) Speak(ctx context.Context) error {
	if a.speaker == nil {
		return ErrNoSpeaker
	}
	return a.speaker.Speak(ctx, a.session.Text())
}

// LatestJPEG returns the most recent annotated preview frame, or nil.
func (a *App) LatestJPEG() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latest
}

func (a *App) setLatest(buf []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latest = buf
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start opens the camera and begins the recognition pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	if fps := a.config.Camera.FPS; fps > 0 {
		a.camera.SetFPS(fps)
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	a.log.WithField("fps", a.camera.FPS()).Info("recognition pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector. It waits for
// the frame in flight to finish.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Warn("error closing camera")
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			a.log.WithError(err).Warn("error closing detector")
		}
	}

	if a.store != nil {
		if err := a.store.Sessions().End(a.SessionID(), time.Now()); err != nil {
			a.log.WithError(err).Warn("failed to end session")
		}
	}

	a.log.Info("recognition pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Session returns the translator session.
func (a *App) Session() *translator.Session {
	return a.session
}
