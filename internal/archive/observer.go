package archive

// Observer receives progress notifications from a Sequencer.
type Observer interface {
	PhaseStarted(name string)
	FileStarted(path string)
	FileSkipped(path string, reason error)
	BatchWritten(n int, total int)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) PhaseStarted(string)       {}
func (NopObserver) FileStarted(string)        {}
func (NopObserver) FileSkipped(string, error) {}
func (NopObserver) BatchWritten(int, int)     {}
