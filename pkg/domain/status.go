package domain

// Status defines whether a navigation is waiting for exit work to finish.
type Status string

const (
	StatusIdle          Status = "idle"          // Displayed content matches the last completed navigation
	StatusTransitioning Status = "transitioning" // Exit callbacks are running; the old content is still displayed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTransitioning reports whether s is StatusTransitioning.
func (s Status) IsTransitioning() bool {
	return s == StatusTransitioning
}
