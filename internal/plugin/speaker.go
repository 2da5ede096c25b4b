package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// SpeakAction is the action a speech plugin must implement.
const SpeakAction = "speak"

// Speaker voices translated text.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// SpeechParams are sent to the speech plugin with every speak request.
type SpeechParams struct {
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// DefaultSpeechParams returns the voice settings: slightly slowed, normal pitch
// and full volume.
func DefaultSpeechParams() SpeechParams {
	return SpeechParams{Rate: 0.9, Pitch: 1, Volume: 1}
}

// PluginSpeaker speaks through a named plugin run by an Executor.
type PluginSpeaker struct {
	manager  *Manager
	executor *Executor
	name     string
	voice    SpeechParams
	log      *logrus.Entry
}

// NewPluginSpeaker returns a Speaker backed by the plugin called name.
func NewPluginSpeaker(manager *Manager, executor *Executor, name string) *PluginSpeaker {
	return &PluginSpeaker{
		manager:  manager,
		executor: executor,
		name:     name,
		voice:    DefaultSpeechParams(),
		log:      logrus.WithField("component", "plugin.Speaker"),
	}
}

// Speak sends text to the speech plugin. Blank text is ignored.
func (s *PluginSpeaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	p, err := s.manager.Get(s.name)
	if err != nil {
		return fmt.Errorf("speech plugin %q: %w", s.name, err)
	}
	if !p.Manifest.Supports(SpeakAction) {
		return fmt.Errorf("plugin %q does not support %q", s.name, SpeakAction)
	}

	params := s.voice
	params.Text = text
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode speech params: %w", err)
	}

	resp, err := s.executor.Execute(ctx, p, &Request{Action: SpeakAction, Params: raw})
	if err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error == "" {
			return errors.New("speech plugin reported failure")
		}
		return fmt.Errorf("speech plugin: %s", resp.Error)
	}

	s.log.WithField("chars", len(text)).Debug("spoke transcript")
	return nil
}
