package engine

// Stage orders systems within one frame.
type Stage uint8

const (
	// StageStartup runs once, before the first frame.
	StageStartup Stage = iota
	// StageUpdate runs after the state hooks, before the physics step.
	StageUpdate
	// StagePostUpdate runs after transform read-back, before rendering.
	StagePostUpdate
	// StageRender draws the frame.
	StageRender
	// StageLast runs after the frame was presented.
	StageLast

	stageCount
)

var stageNames = [stageCount]string{"startup", "update", "post-update", "render", "last"}

func (s Stage) String() string {
	if s < stageCount {
		return stageNames[s]
	}
	return "unknown"
}

// State is an application state such as "loading" or "main". The zero State
// means no state hooks run.
type State string

// System is one unit of per-frame work. A returned error stops the frame.
type System func(w *World) error

// Schedule holds the systems a Driver runs.
type Schedule struct {
	stages   [stageCount][]System
	onEnter  map[State][]System
	onUpdate map[State][]System
	onExit   map[State][]System
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{
		onEnter:  make(map[State][]System),
		onUpdate: make(map[State][]System),
		onExit:   make(map[State][]System),
	}
}

// Add appends systems to a stage. Systems of a stage run in insertion order.
func (s *Schedule) Add(stage Stage, systems ...System) *Schedule {
	if stage < stageCount {
		s.stages[stage] = append(s.stages[stage], systems...)
	}
	return s
}

// OnEnter registers systems that run once when st becomes active.
func (s *Schedule) OnEnter(st State, systems ...System) *Schedule {
	s.onEnter[st] = append(s.onEnter[st], systems...)
	return s
}

// OnUpdate registers systems that run every frame while st is active.
func (s *Schedule) OnUpdate(st State, systems ...System) *Schedule {
	s.onUpdate[st] = append(s.onUpdate[st], systems...)
	return s
}

// OnExit registers systems that run once when st is left.
func (s *Schedule) OnExit(st State, systems ...System) *Schedule {
	s.onExit[st] = append(s.onExit[st], systems...)
	return s
}

func runAll(w *World, systems []System) error {
	for _, sys := range systems {
		if err := sys(w); err != nil {
			return err
		}
	}
	return nil
}
