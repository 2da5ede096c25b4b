package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/translator"
)

// classification is the classify command's output for one hand.
type classification struct {
	Hand     string           `json:"hand"`
	Result   gesture.Result   `json:"result"`
	Text     string           `json:"text,omitempty"`
	Analysis gesture.Analysis `json:"analysis"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify hand landmarks read from a JSON file or stdin",
		Long: `Classify reads either a single hand {"points": [...21 points...]} or a
tracker frame {"hands": [...]} and prints the gesture, its text and the
finger analysis the rules were evaluated on.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return classify(in, cmd.OutOrStdout())
		},
	}
}

func classify(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	hands, err := decodeInput(data)
	if err != nil {
		return err
	}

	results := make([]classification, 0, len(hands))
	for i := range hands {
		result, analysis := gesture.Explain(&hands[i])
		text, _ := translator.TextFor(result.Label)
		results = append(results, classification{
			Hand:     translator.HandKey(&hands[i], i),
			Result:   result,
			Text:     text,
			Analysis: analysis,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// decodeInput accepts a tracker frame or a bare hand.
func decodeInput(data []byte) ([]detector.HandLandmarks, error) {
	var shape struct {
		Hands  json.RawMessage `json:"hands"`
		Points json.RawMessage `json:"points"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	switch {
	case shape.Hands != nil:
		return detector.DecodeHands(data)
	case shape.Points != nil:
		return detector.DecodeHands([]byte(`{"hands":[` + string(data) + `]}`))
	default:
		return nil, fmt.Errorf("input has neither \"hands\" nor \"points\"")
	}
}
