// internal/harness/observer.go
// Package: harness
package harness

// Observer receives sweep progress. All calls come from the sweep goroutine,
// in order, and must not block for long.
type Observer interface {
	OnSweepStart(total int)
	OnPointStart(index, total int, point SweepPoint)
	OnRepeatDone(point SweepPoint, repeat, repeats int, err error)
	// OnPointDone gets the record, or a nil record and the failure.
	OnPointDone(index, total int, point SweepPoint, rec *Record, err error)
	OnSweepDone(ds *Dataset)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnSweepStart(int)                                 {}
func (NopObserver) OnPointStart(int, int, SweepPoint)                {}
func (NopObserver) OnRepeatDone(SweepPoint, int, int, error)         {}
func (NopObserver) OnPointDone(int, int, SweepPoint, *Record, error) {}
func (NopObserver) OnSweepDone(*Dataset)                             {}
