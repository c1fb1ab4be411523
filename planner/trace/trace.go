package trace

// Level controls the verbosity of relaxation tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelRelaxations captures every attempted transition.
	LevelRelaxations Level = "relaxations"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:        true,
	LevelRelaxations: true,
	"":               true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// RelaxationTrace collects transition records during one optimization run.
type RelaxationTrace struct {
	Level   Level
	Records []RelaxationRecord
}

// NewRelaxationTrace creates a RelaxationTrace ready for recording.
func NewRelaxationTrace(level Level) *RelaxationTrace {
	return &RelaxationTrace{
		Level:   level,
		Records: make([]RelaxationRecord, 0),
	}
}

// Enabled reports whether records should be collected. Safe on a nil trace.
func (rt *RelaxationTrace) Enabled() bool {
	return rt != nil && rt.Level == LevelRelaxations
}

// Record appends a relaxation record. No-op unless the trace is enabled.
func (rt *RelaxationTrace) Record(record RelaxationRecord) {
	if !rt.Enabled() {
		return
	}
	rt.Records = append(rt.Records, record)
}
