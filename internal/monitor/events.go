package monitor

// Event names attached to operator log entries.
const (
	EventStartup        = "startup"
	EventTick           = "tick"
	EventSensorError    = "sensor_error"
	EventNoData         = "no_data"
	EventLightError     = "light_error"
	EventDisplayOn      = "display_on"
	EventDisplayOff     = "display_off"
	EventReadingChanged = "reading_changed"
	EventDisplayError   = "display_error"
	EventLogError       = "log_error"
	EventStopped        = "stopped"
)
