package ecs

// System is any value registered with a Pipeline. A system takes part in a
// phase by implementing the matching optional interface below.
type System any

// Initializer is called once when the system is added.
type Initializer interface {
	OnInit(p *Pipeline)
}

// Updater runs during the update phase of every frame.
type Updater interface {
	OnUpdate(frame *UpdateFrame)
}

// LateUpdater runs after every system's update phase.
type LateUpdater interface {
	OnLateUpdate(frame *UpdateFrame)
}

// Destroyer is called when the pipeline is torn down.
type Destroyer interface {
	OnDestroy()
}
