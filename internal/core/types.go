package core

// Tunable is anything that exposes parameters on the HUD.
type Tunable interface {
	Name() string
	Parameters() ParameterSnapshot
}
