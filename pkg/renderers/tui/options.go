package tui

import (
	"errors"
	"io"

	"github.com/goliatone/go-formengine/pkg/form"
)

var (
	// ErrAborted is returned when the user interrupts a prompt.
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when fields still fail after the last round.
	ErrInvalid = errors.New("tui: form is invalid")
)

// OutputFormat selects how Render and Serialize encode values.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatPrettyText     OutputFormat = "pretty"
)

func (f OutputFormat) valid() bool {
	switch f {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return true
	}
	return false
}

// Theme prefixes prompts, info lines and error lines.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

type Option func(*Renderer)

// WithPromptDriver replaces the survey driver, typically with a scripted one
// in tests.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput is where the survey driver prints info and error lines.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOptionSource fills OptionsSource lists before the first prompt.
func WithOptionSource(src form.OptionSource) Option {
	return func(r *Renderer) {
		r.source = src
	}
}

// WithMaxRounds caps how often Fill goes back over fields that fail at
// submit time. The default is 3.
func WithMaxRounds(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
