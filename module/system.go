package module

import "github.com/plus3/ooftn-logic/ecs"

// System resumes suspended walks each frame and cancels an entity's walks
// when it is destroyed.
type System struct {
	interp *Interpreter
}

// NewSystem wraps an interpreter as a pipeline system.
func NewSystem(interp *Interpreter) *System {
	return &System{interp: interp}
}

// Interpreter returns the wrapped interpreter.
func (s *System) Interpreter() *Interpreter {
	return s.interp
}

func (s *System) OnInit(p *ecs.Pipeline) {
	p.OnEntityDestroy(func(e *ecs.RuntimeEntity) {
		s.interp.Cancel(e.ID)
	})
}

func (s *System) OnUpdate(frame *ecs.UpdateFrame) {
	s.interp.Resume(frame)
}
