package weather

import (
	"strconv"

	"weatherfx/internal/core"
)

// Parameter keys exposed to the HUD.
const (
	ParamTemperature   = "temperature"
	ParamWind          = "wind"
	ParamPrecipitation = "precipitation"
)

var hudConditions = []string{Rainy, Pouring, Snowy}

// Name identifies the controller on the HUD.
func (c *Controller) Name() string { return "weather" }

// Parameters snapshots inputs, flags and derived state for display.
func (c *Controller) Parameters() core.ParameterSnapshot {
	inputs := core.ParameterGroup{
		Name: "Inputs",
		Params: []core.Parameter{
			floatParam(ParamTemperature, "Temperature %", c.temperature*100),
			floatParam(ParamWind, "Wind %", c.windIntensity*100),
			floatParam(ParamPrecipitation, "Precipitation %", c.basePrecip*100),
		},
	}
	flags := core.ParameterGroup{Name: "Conditions"}
	for _, flag := range hudConditions {
		flags.Params = append(flags.Params, core.Parameter{
			Key:   flag,
			Label: flag,
			Type:  core.ParamTypeBool,
			Value: strconv.FormatBool(c.conditions[flag]),
		})
	}
	derived := core.ParameterGroup{
		Name: "Derived",
		Params: []core.Parameter{
			floatParam("rain_intensity", "Rain", nonNegative(c.rainIntensity)),
			floatParam("snow_intensity", "Snow", nonNegative(c.snowIntensity)),
			floatParam("leaf_intensity", "Leaves", c.leafIntensity),
			floatParam("wind_tilt", "Tilt deg", c.windTilt),
		},
	}
	for _, e := range c.effects {
		if e.system == nil {
			continue
		}
		derived.Params = append(derived.Params, core.Parameter{
			Key:   e.name + "_count",
			Label: e.name + " particles",
			Type:  core.ParamTypeInt,
			Value: strconv.Itoa(max(0, e.system.Count())),
		})
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{inputs, flags, derived}}
}

// ParameterControls lists the HUD-adjustable inputs.
func (c *Controller) ParameterControls() []core.ParameterControl {
	controls := []core.ParameterControl{
		percentControl(ParamTemperature, "Temperature %"),
		percentControl(ParamWind, "Wind %"),
		percentControl(ParamPrecipitation, "Precipitation %"),
	}
	for _, flag := range hudConditions {
		controls = append(controls, core.ParameterControl{Key: flag, Label: flag, Type: core.ParamTypeBool})
	}
	return controls
}

// SetFloatParameter applies a percent input by key.
func (c *Controller) SetFloatParameter(key string, value float64) bool {
	switch key {
	case ParamTemperature:
		c.SetTemperature(value)
	case ParamWind:
		c.SetWindSpeed(value)
	case ParamPrecipitation:
		c.SetPrecipitation(value)
	default:
		return false
	}
	return true
}

// SetBoolParameter toggles a condition flag by key.
func (c *Controller) SetBoolParameter(key string, value bool) bool {
	for _, flag := range hudConditions {
		if flag == key {
			c.SetCondition(key, value)
			return true
		}
	}
	return false
}

func floatParam(key, label string, v float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(v, 'f', 2, 64)}
}

func percentControl(key, label string) core.ParameterControl {
	return core.ParameterControl{
		Key: key, Label: label, Type: core.ParamTypeFloat,
		Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true,
	}
}

func nonNegative(v float64) float64 { return max(0, v) }
