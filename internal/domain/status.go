package domain

// ProjectStatus is the per-project position in the build pipeline.
//
// Valid transitions:
//   - Idle -> Building
//   - Building -> Publishing, Failed
//   - Publishing -> Idle
//   - Failed -> Idle
//
// A coalesced rebuild moves Publishing or Failed straight back to Building.
type ProjectStatus int

const (
	StatusIdle ProjectStatus = iota
	StatusBuilding
	StatusPublishing
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s ProjectStatus) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusBuilding:
		return "Building"
	case StatusPublishing:
		return "Publishing"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Busy reports whether a build or publish is in flight.
func (s ProjectStatus) Busy() bool {
	return s == StatusBuilding || s == StatusPublishing
}
