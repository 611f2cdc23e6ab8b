package weather

import "sort"

// Sink receives the presentation state published by the controller: named
// scalar variables and on/off classes.
type Sink interface {
	SetVariable(name string, value float64)
	ToggleClass(name string, on bool)
}

// Published variable names.
const (
	VarTemperature   = "temperature-intensity"
	VarWindSpeed     = "windspeed-intensity"
	VarWindTilt      = "wind-tilt"
	VarPrecipitation = "precipitation-intensity"
	VarSnowfall      = "snowfall-intensity"
	VarLeaf          = "leaf-intensity"
)

// Published class names. Conditions add "weather-<flag>" classes.
const (
	ClassIcicles = "temp-icicles"
	ClassScarf   = "temp-scarf"

	conditionClassPrefix = "weather-"
)

// ConditionClass returns the class published while flag is set.
func ConditionClass(flag string) string { return conditionClassPrefix + flag }

type noSink struct{}

func (noSink) SetVariable(string, float64) {}
func (noSink) ToggleClass(string, bool)    {}

// MemorySink records the latest published state. The zero value is ready to
// use.
type MemorySink struct {
	vars    map[string]float64
	classes map[string]bool
}

// SetVariable stores value under name.
func (m *MemorySink) SetVariable(name string, value float64) {
	if m.vars == nil {
		m.vars = make(map[string]float64)
	}
	m.vars[name] = value
}

// ToggleClass adds or removes a class.
func (m *MemorySink) ToggleClass(name string, on bool) {
	if m.classes == nil {
		m.classes = make(map[string]bool)
	}
	if on {
		m.classes[name] = true
		return
	}
	delete(m.classes, name)
}

// Variable returns the last value published under name.
func (m *MemorySink) Variable(name string) (float64, bool) {
	v, ok := m.vars[name]
	return v, ok
}

// HasClass reports whether a class is currently set.
func (m *MemorySink) HasClass(name string) bool { return m.classes[name] }

// Classes lists the set classes in sorted order.
func (m *MemorySink) Classes() []string {
	out := make([]string, 0, len(m.classes))
	for c := range m.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MultiSink fans every call out to each sink in order.
type MultiSink []Sink

func (ms MultiSink) SetVariable(name string, value float64) {
	for _, s := range ms {
		if s != nil {
			s.SetVariable(name, value)
		}
	}
}

func (ms MultiSink) ToggleClass(name string, on bool) {
	for _, s := range ms {
		if s != nil {
			s.ToggleClass(name, on)
		}
	}
}
