package ports

// ProgressObserver receives progress notifications from a batch conversion.
//
// Notifications are delivered synchronously on the goroutine running the
// conversion. Implementations that update state owned by another goroutine
// must do their own synchronization.
type ProgressObserver interface {
	// OnFileStart is called before each file is converted.
	// index is zero-based; total is the number of files in the batch.
	OnFileStart(index, total int, name string)

	// OnProgress reports the completion percentage (0-100) of the current file.
	OnProgress(percent float64)
}

// ProgressFuncs adapts optional callback functions to ProgressObserver.
// Nil fields are ignored.
type ProgressFuncs struct {
	FileStart func(index, total int, name string)
	Progress  func(percent float64)
}

// OnFileStart implements ProgressObserver.
func (f ProgressFuncs) OnFileStart(index, total int, name string) {
	if f.FileStart != nil {
		f.FileStart(index, total, name)
	}
}

// OnProgress implements ProgressObserver.
func (f ProgressFuncs) OnProgress(percent float64) {
	if f.Progress != nil {
		f.Progress(percent)
	}
}

// NopObserver discards all notifications.
var NopObserver ProgressObserver = ProgressFuncs{}
