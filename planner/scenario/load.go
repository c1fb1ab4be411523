package scenario

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inference-sim/festival-sim/planner"
)

// Format names an input format.
type Format string

const (
	// FormatAuto picks YAML for .yaml/.yml paths and the integer stream otherwise.
	FormatAuto Format = "auto"
	// FormatStream is the whitespace-delimited integer stream.
	FormatStream Format = "stream"
	// FormatYAML is the YAML scenario file.
	FormatYAML Format = "yaml"
)

var validFormats = map[Format]bool{FormatAuto: true, FormatStream: true, FormatYAML: true, "": true}

// IsValidFormat returns true if the given string names an input format.
func IsValidFormat(format string) bool {
	return validFormats[Format(format)]
}

// Resolve maps FormatAuto (or empty) to a concrete format for path.
// Standard input ("-") defaults to the integer stream.
func Resolve(path string, format Format) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatStream
	}
}

// Load reads a model from path ("-" = stdin) in the given format.
func Load(path string, format Format, opts StreamOptions) (*planner.Model, error) {
	if !IsValidFormat(string(format)) {
		return nil, fmt.Errorf("unknown input format %q; valid: auto, stream, yaml", format)
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return Read(r, Resolve(path, format), opts)
}

// Read reads a model from r in a concrete format.
func Read(r io.Reader, format Format, opts StreamOptions) (*planner.Model, error) {
	switch format {
	case FormatYAML:
		s, err := DecodeScenario(r)
		if err != nil {
			return nil, err
		}
		return s.Model()
	case FormatStream:
		return ReadStream(r, opts)
	default:
		return nil, fmt.Errorf("cannot read format %q", format)
	}
}
