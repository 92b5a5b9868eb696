package watchdog

import "time"

// ActionRecord is an immutable snapshot of one attempted agent action.
type ActionRecord struct {
	Name         string
	Timestamp    time.Time
	Success      bool
	ErrorMessage string
	Metadata     map[string]any
}

// Summary renders the record for report listings.
func (a ActionRecord) Summary() string {
	if a.Success {
		return a.Name + " (success)"
	}
	return a.Name + " (failed)"
}

// actionsSimilar is the binary similarity test applied to the two most
// recent records: same action name, and either both failed with matching
// error text or both carry the same non-empty error message. There is no
// graded score; Config.SimilarityThreshold stays unused until one ships.
func actionsSimilar(a, b ActionRecord) bool {
	if a.Name != b.Name {
		return false
	}
	if !a.Success && !b.Success {
		return a.ErrorMessage == b.ErrorMessage
	}
	return a.ErrorMessage != "" && a.ErrorMessage == b.ErrorMessage
}
