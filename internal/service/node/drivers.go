package node

import (
	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/hardware"
	"github.com/oshokin/soil-node/internal/hardware/periph"
	"github.com/oshokin/soil-node/internal/hardware/simulated"
)

const driverPeriph = "periph"

// newDrivers builds the hardware drivers named in the settings. Simulated
// drivers share one soil model, so the simulated pump wets the simulated probe.
//
//nolint:ireturn // Callers only need the driver interfaces.
func newDrivers(settings *config.Config) (hardware.SensorDriver, hardware.ActuatorDriver) {
	var model *simulated.Soil

	soilModel := func() *simulated.Soil {
		if model == nil {
			start := (settings.Sensor.DryRaw + settings.Sensor.WetRaw) / 2
			model = simulated.NewSoil(settings.Sensor.DryRaw, settings.Sensor.WetRaw, start)
		}

		return model
	}

	var sensorDriver hardware.SensorDriver
	if settings.Sensor.Driver == driverPeriph {
		sensorDriver = periph.NewSensorDriver(settings.Sensor.SPIPort)
	} else {
		sensorDriver = simulated.NewSensorDriver(soilModel())
	}

	var actuatorDriver hardware.ActuatorDriver
	if settings.Actuator.Driver == driverPeriph {
		actuatorDriver = periph.NewActuatorDriver()
	} else {
		actuatorDriver = simulated.NewActuatorDriver(soilModel(), settings.Actuator.Pin)
	}

	return sensorDriver, actuatorDriver
}
