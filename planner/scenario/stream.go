// Package scenario reads and writes festival models: the whitespace-delimited
// integer stream and the YAML scenario file.
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/inference-sim/festival-sim/planner"
)

// ErrMalformed indicates a non-integer token, a negative count, or a token count mismatch.
var ErrMalformed = errors.New("scenario: malformed input")

// StreamOptions configures ReadStream.
type StreamOptions struct {
	// Prompt, when set, receives a console prompt before each input section.
	// Trailing tokens are not checked in prompt mode, since an interactive
	// reader has no end of input.
	Prompt io.Writer
}

type tokenReader struct {
	sc  *bufio.Scanner
	pos int
}

func (t *tokenReader) next(field string, bitSize int) (int64, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, fmt.Errorf("reading %s: %w", field, err)
		}
		return 0, fmt.Errorf("token %d (%s): unexpected end of input: %w", t.pos+1, field, ErrMalformed)
	}
	t.pos++
	text := t.sc.Text()
	v, err := strconv.ParseInt(text, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("token %d (%s): %q is not a %d-bit integer: %w", t.pos, field, text, bitSize, ErrMalformed)
	}
	return v, nil
}

func (t *tokenReader) readInt64(field string) (int64, error) {
	return t.next(field, 64)
}

func (t *tokenReader) readInt(field string) (int, error) {
	v, err := t.next(field, strconv.IntSize)
	return int(v), err
}

func (t *tokenReader) count(field string) (int, error) {
	n, err := t.readInt(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("token %d (%s): count must be non-negative, got %d: %w", t.pos, field, n, ErrMalformed)
	}
	return n, nil
}

func prompt(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format, args...)
	}
}

// ReadStream parses a model from the integer stream
//
//	S P K
//	S*S distances
//	P lines of: stage start end base growth
//	C
//	C lines of: from to bonus
//
// The whole stream is read and checked before the model is built.
func ReadStream(r io.Reader, opts StreamOptions) (*planner.Model, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	t := &tokenReader{sc: sc}

	prompt(opts.Prompt, "Enter number of stages (S), performances (P), and max stage changes (K): ")
	stages, err := t.count("S")
	if err != nil {
		return nil, err
	}
	perfCount, err := t.count("P")
	if err != nil {
		return nil, err
	}
	maxChanges, err := t.count("K")
	if err != nil {
		return nil, err
	}

	prompt(opts.Prompt, "Enter %dx%d distance matrix:\n", stages, stages)
	distance := make([][]int64, 0, min(stages, 1024))
	for a := 0; a < stages; a++ {
		row := make([]int64, 0, min(stages, 1024))
		for b := 0; b < stages; b++ {
			v, err := t.readInt64(fmt.Sprintf("distance[%d][%d]", a, b))
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		distance = append(distance, row)
	}

	prompt(opts.Prompt, "Enter %d performances (stage start end base growth):\n", perfCount)
	perfs := make([]planner.Performance, 0, min(perfCount, 1024))
	for i := 0; i < perfCount; i++ {
		field := func(name string) string { return fmt.Sprintf("performances[%d].%s", i, name) }
		var p planner.Performance
		if p.Stage, err = t.readInt(field("stage")); err != nil {
			return nil, err
		}
		if p.Start, err = t.readInt64(field("start")); err != nil {
			return nil, err
		}
		if p.End, err = t.readInt64(field("end")); err != nil {
			return nil, err
		}
		if p.Base, err = t.readInt64(field("base")); err != nil {
			return nil, err
		}
		if p.Growth, err = t.readInt64(field("growth")); err != nil {
			return nil, err
		}
		perfs = append(perfs, p)
	}

	prompt(opts.Prompt, "Enter number of combos: ")
	comboCount, err := t.count("C")
	if err != nil {
		return nil, err
	}
	prompt(opts.Prompt, "Enter %d combos (performance1_id performance2_id bonus):\n", comboCount)
	combos := make([]planner.Combo, 0, min(comboCount, 1024))
	for i := 0; i < comboCount; i++ {
		field := func(name string) string { return fmt.Sprintf("combos[%d].%s", i, name) }
		var c planner.Combo
		if c.From, err = t.readInt(field("from")); err != nil {
			return nil, err
		}
		if c.To, err = t.readInt(field("to")); err != nil {
			return nil, err
		}
		if c.Bonus, err = t.readInt64(field("bonus")); err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}

	if opts.Prompt == nil && sc.Scan() {
		return nil, fmt.Errorf("token %d: trailing input %q after %d combos: %w", t.pos+1, sc.Text(), comboCount, ErrMalformed)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	m, err := planner.NewModel(stages, maxChanges, distance, perfs, combos)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	return m, nil
}

// WriteStream writes m in the format read by ReadStream.
func WriteStream(w io.Writer, m *planner.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", m.Stages, len(m.Performances), m.MaxChanges)
	for _, row := range m.Distance {
		for b, v := range row {
			if b > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatInt(v, 10))
		}
		bw.WriteByte('\n')
	}
	for _, p := range m.Performances {
		fmt.Fprintf(bw, "%d %d %d %d %d\n", p.Stage, p.Start, p.End, p.Base, p.Growth)
	}
	combos := m.ComboList()
	fmt.Fprintf(bw, "%d\n", len(combos))
	for _, c := range combos {
		fmt.Fprintf(bw, "%d %d %d\n", c.From, c.To, c.Bonus)
	}
	return bw.Flush()
}
