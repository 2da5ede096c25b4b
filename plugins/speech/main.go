// Package main provides a speech plugin that reads text aloud with the
// platform's command line synthesizer.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SpeakParams defines parameters for the speak action.
// Rate, Pitch and Volume are relative, 1 being the voice's default.
type SpeakParams struct {
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// baseWordsPerMinute is the default speaking rate of say and espeak.
const baseWordsPerMinute = 175

var errNoSynthesizer = errors.New("no speech synthesizer found (install espeak or speech-dispatcher)")

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "speak":
		if err := handleSpeak(req.Params); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleSpeak parses the params and runs the synthesizer until it finishes.
func handleSpeak(params json.RawMessage) error {
	p := SpeakParams{Rate: 1, Pitch: 1, Volume: 1}
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return nil
	}

	name, args, err := buildCommand(runtime.GOOS, p, exec.LookPath)
	if err != nil {
		return err
	}

	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// buildCommand picks a synthesizer for goos and translates the relative voice
// settings into its flags.
func buildCommand(goos string, p SpeakParams, lookPath func(string) (string, error)) (string, []string, error) {
	wpm := strconv.Itoa(int(math.Round(baseWordsPerMinute * positive(p.Rate))))

	if goos == "darwin" {
		return "say", []string{"-r", wpm, p.Text}, nil
	}

	if _, err := lookPath("espeak"); err == nil {
		// espeak pitch is 0-99 with 50 the default, amplitude 0-200 with 100
		pitch := strconv.Itoa(clamp(int(math.Round(50*positive(p.Pitch))), 0, 99))
		amplitude := strconv.Itoa(clamp(int(math.Round(100*positive(p.Volume))), 0, 200))
		return "espeak", []string{"-s", wpm, "-p", pitch, "-a", amplitude, p.Text}, nil
	}

	if _, err := lookPath("spd-say"); err == nil {
		// spd-say rate is -100..100 around 0
		rate := strconv.Itoa(clamp(int(math.Round((positive(p.Rate)-1)*100)), -100, 100))
		return "spd-say", []string{"--wait", "-r", rate, p.Text}, nil
	}

	return "", nil, errNoSynthesizer
}

func positive(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
