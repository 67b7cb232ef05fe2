package frpc

import "strings"

type Hint int

const (
	HintConnecting Hint = iota + 1
	HintRunning
	HintFatal
)

func (h Hint) String() string {
	switch h {
	case HintConnecting:
		return "connecting"
	case HintRunning:
		return "running"
	case HintFatal:
		return "fatal"
	default:
		return "none"
	}
}

// Classifier turns one frpc log line into a status hint. The second return
// value is false when the line says nothing about connection state.
type Classifier interface {
	Classify(line string) (Hint, bool)
}

type Rule struct {
	Marker string
	Hint   Hint
}

// SubstringClassifier applies the first rule whose marker occurs in the line.
type SubstringClassifier struct {
	Rules []Rule
}

func (c SubstringClassifier) Classify(line string) (Hint, bool) {
	for _, r := range c.Rules {
		if strings.Contains(line, r.Marker) {
			return r.Hint, true
		}
	}
	return 0, false
}

// DefaultClassifier knows frpc's own log vocabulary. It depends on the exact
// wording of the frpc release in use.
func DefaultClassifier() Classifier {
	return SubstringClassifier{Rules: []Rule{
		{Marker: "login to server success", Hint: HintRunning},
		{Marker: "try to connect to server", Hint: HintConnecting},
		{Marker: "port already used", Hint: HintFatal},
		{Marker: "proxy exit with error", Hint: HintFatal},
		{Marker: exitMarker, Hint: HintFatal},
	}}
}
