package domain

import "strings"

// TrackingStatus is the closed lifecycle a lead carries once it enters
// tracking. Transitions between non-terminal states are not policed here;
// only membership and terminality are.
type TrackingStatus string

const (
	StatusNew          TrackingStatus = "NEW"
	StatusLinkOnly     TrackingStatus = "LINK_ONLY"
	StatusScored       TrackingStatus = "SCORED"
	StatusShortlisted  TrackingStatus = "SHORTLISTED"
	StatusReadyToApply TrackingStatus = "READY_TO_APPLY"
	StatusApplied      TrackingStatus = "APPLIED"
	StatusRejected     TrackingStatus = "REJECTED"
	StatusArchived     TrackingStatus = "ARCHIVED"
)

var allStatuses = map[TrackingStatus]bool{
	StatusNew:          true,
	StatusLinkOnly:     true,
	StatusScored:       true,
	StatusShortlisted:  true,
	StatusReadyToApply: true,
	StatusApplied:      true,
	StatusRejected:     true,
	StatusArchived:     true,
}

var terminalStatuses = map[TrackingStatus]bool{
	StatusApplied:  true,
	StatusRejected: true,
	StatusArchived: true,
}

// NormalizeStatus upper-cases and trims raw and returns it if it is a known
// status. Anything else falls back to fallback (itself normalized), and NEW
// when the fallback is also unknown. Externally-sourced status strings must
// pass through here before use.
func NormalizeStatus(raw string, fallback TrackingStatus) TrackingStatus {
	s := TrackingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if allStatuses[s] {
		return s
	}
	f := TrackingStatus(strings.ToUpper(strings.TrimSpace(string(fallback))))
	if allStatuses[f] {
		return f
	}
	return StatusNew
}

// IsTerminal reports whether s is one of the three terminal statuses.
func (s TrackingStatus) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsTerminalStatus is the raw-string form of IsTerminal. Unknown or empty
// input is never terminal.
func IsTerminalStatus(raw string) bool {
	return TrackingStatus(strings.ToUpper(strings.TrimSpace(raw))).IsTerminal()
}
