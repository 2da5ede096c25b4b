// Package translator turns stabilized gesture labels into committed text.
package translator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/signspeak/internal/gesture"
)

// Separator is appended after every committed token.
const Separator = " "

// signs maps each gesture to the text it commits. None has no entry.
var signs = map[gesture.Label]string{
	gesture.Fist:     "A",
	gesture.Peace:    "V",
	gesture.ThumbsUp: "Good",
	gesture.OpenPalm: "Stop",
	gesture.Pointing: "I",
	gesture.LShape:   "L",
	gesture.OKSign:   "O",
}

// TextFor returns the text a gesture commits, and false for gestures without one.
func TextFor(label gesture.Label) (string, bool) {
	text, ok := signs[label]
	return text, ok
}

// Token is one committed translation.
type Token struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Gesture   gesture.Label `json:"gesture"`
	Hand      string        `json:"hand"`
	Timestamp time.Time     `json:"timestamp"`
}

// Transcript is the append-only translated text of a session together with
// the history of recent commits.
type Transcript struct {
	text    strings.Builder
	history *History
}

// NewTranscript creates an empty transcript whose history keeps the last
// historySize tokens.
func NewTranscript(historySize int) *Transcript {
	return &Transcript{history: NewHistory(historySize)}
}

// Commit appends the text mapped to label unless the label has no text or the
// transcript already ends with that text.
func (t *Transcript) Commit(label gesture.Label, hand string, at time.Time) (Token, bool) {
	text, ok := TextFor(label)
	if !ok || t.endsWith(text) {
		return Token{}, false
	}

	t.text.WriteString(text)
	t.text.WriteString(Separator)

	tok := Token{
		ID:        uuid.NewString(),
		Text:      text,
		Gesture:   label,
		Hand:      hand,
		Timestamp: at,
	}
	t.history.Add(tok)
	return tok, true
}

// endsWith compares candidate with the tail of the text, ignoring the
// separator written after the last token.
func (t *Transcript) endsWith(candidate string) bool {
	current := strings.TrimSuffix(t.text.String(), Separator)
	return len(current) >= len(candidate) && current[len(current)-len(candidate):] == candidate
}

// Text returns the translated text so far.
func (t *Transcript) Text() string {
	return t.text.String()
}

// History returns the recent tokens, oldest first.
func (t *Transcript) History() []Token {
	return t.history.Tokens()
}

// Reset empties the text and the history.
func (t *Transcript) Reset() {
	t.text.Reset()
	t.history.Reset()
}
