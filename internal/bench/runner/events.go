package runner

// Event is one of the lifecycle notifications emitted during a run.
type Event interface {
	event()
}

type RunStart struct {
	Tasks []string
}

type TaskStart struct {
	Task string
}

type WarmupStart struct {
	Task       string
	Iterations int
}

type WarmupEnd struct {
	Task string
}

type Setup struct {
	Task string
}

type Teardown struct {
	Task string
}

type TaskComplete struct {
	Result Result
}

type RunEnd struct {
	Results []Result
}

// Progress reports measurement progress of the current task. It is
// throttled to at most one event per ProgressInterval, plus one final event
// when the task's measurement completes.
type Progress struct {
	Task                string
	TasksCompleted      int
	TasksTotal          int
	IterationsCompleted int
	IterationsTotal     int
	ElapsedMs           float64
}

func (RunStart) event()     {}
func (TaskStart) event()    {}
func (WarmupStart) event()  {}
func (WarmupEnd) event()    {}
func (Setup) event()        {}
func (Teardown) event()     {}
func (TaskComplete) event() {}
func (RunEnd) event()       {}
func (Progress) event()     {}

// Observer receives events synchronously on the goroutine driving the run.
// Observers must not block for long; time spent in OnEvent is never part of
// a measured batch but does delay the run.
type Observer interface {
	OnEvent(e Event)
}

type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Observers fans an event out to every observer in order.
type Observers []Observer

func (os Observers) OnEvent(e Event) {
	for _, o := range os {
		o.OnEvent(e)
	}
}
