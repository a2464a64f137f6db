package cortex

// WarningCode identifies a class of unsolicited warning frames.
type WarningCode int

// Warning codes used by the device pairing flow. Cortex reports one of
// the four connect outcomes after a successful "connect" control
// command; which one depends on the headset and connection type, and
// all four mean the headset is usable.
const (
	WarnHeadsetConnected     WarningCode = 100
	WarnHeadsetPaired        WarningCode = 101
	WarnHeadsetReady         WarningCode = 102
	WarnHeadsetDataAvailable WarningCode = 113

	// WarnHeadsetScanFinished follows a "refresh" control command once
	// device discovery has settled.
	WarnHeadsetScanFinished WarningCode = 142
)

// ConnectOutcomes is the closed set of warning codes that conclude a
// headset connect.
var ConnectOutcomes = []WarningCode{
	WarnHeadsetConnected,
	WarnHeadsetPaired,
	WarnHeadsetReady,
	WarnHeadsetDataAvailable,
}

func (c WarningCode) in(codes []WarningCode) bool {
	for _, code := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Stream is a subscribable data stream tag.
type Stream string

const (
	StreamMotion     Stream = "mot"   // motion sensors
	StreamDevice     Stream = "dev"   // device state
	StreamEEGQuality Stream = "eq"    // EEG contact quality
	StreamBandPower  Stream = "power" // frequency band power
	StreamMetrics    Stream = "met"   // performance metrics
	StreamFacial     Stream = "fac"   // facial expressions
	StreamSystem     Stream = "sys"   // system events
)

// Streams lists every subscribable stream in menu order.
var Streams = []Stream{
	StreamMotion,
	StreamDevice,
	StreamEEGQuality,
	StreamBandPower,
	StreamMetrics,
	StreamFacial,
	StreamSystem,
}

// Control device commands.
const (
	ControlRefresh    = "refresh"
	ControlConnect    = "connect"
	ControlDisconnect = "disconnect"
)

// Session statuses.
const (
	SessionOpen   = "open"
	SessionActive = "active"
	SessionClosed = "close"
)

// Query sort directions.
const (
	OrderAscending  = "ASC"
	OrderDescending = "DESC"
)
