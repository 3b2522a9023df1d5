package ecs

// UpdateFrame is handed to systems for one frame.
type UpdateFrame struct {
	DeltaTime float64
	Time      float64
	Number    uint64
	Store     *Store
	Commands  *Commands
	Input     *InputState
}
