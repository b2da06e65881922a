package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// ChannelFailure reports a channel call that returned an error or panicked
// during a cast. The cast itself keeps running.
func ChannelFailure(spell, channel string, err error) Diagnostic {
	return Diagnostic{
		Severity:     Err,
		Code:         "CHANNEL_FAILED",
		Summary:      "channel " + channel + " failed during " + spell,
		Detail:       err.Error(),
		LikelyCauses: []string{"backend offline", "backend removed while a cast was running"},
		Evidence:     map[string]any{"spell": spell, "channel": channel},
	}
}
