package client

// LoadState makes the quiz flow's loading lifecycle explicit instead of
// leaving it implicit in caller timing.
type LoadState int

const (
	LoadNotStarted LoadState = iota
	LoadLoading
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadNotStarted:
		return "not_started"
	case LoadLoading:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}
