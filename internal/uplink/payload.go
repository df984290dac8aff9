// Package uplink assembles sensor payloads and simulates their delivery
// to the cloud. There is no real transport behind it: delivery is a
// probability check, and the payload body only ever reaches the log.
package uplink

import (
	"encoding/json"
	"time"
)

// PreviewBytes is how much of an encoded payload is shown in the transmit log.
const PreviewBytes = 120

// Payload is the JSON document a cycle would upload.
type Payload struct {
	SensorID  string  `json:"sensor_id"`
	CycleID   string  `json:"cycle_id"`
	Timestamp int64   `json:"timestamp"`
	Samples   []int32 `json:"audio_data"`
}

// BuildPayload assembles a payload from compressed samples, keeping at most
// maxSamples leading values.
func BuildPayload(sensorID, cycleID string, ts time.Time, samples []int32, maxSamples int) Payload {
	if maxSamples < 0 {
		maxSamples = 0
	}
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	kept := make([]int32, len(samples))
	copy(kept, samples)

	return Payload{
		SensorID:  sensorID,
		CycleID:   cycleID,
		Timestamp: ts.Unix(),
		Samples:   kept,
	}
}

// Encode marshals the payload to JSON.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Preview returns the first n bytes of an encoded payload with a trailing
// ellipsis, for log output.
func Preview(encoded []byte, n int) string {
	if n <= 0 || len(encoded) <= n {
		return string(encoded)
	}
	return string(encoded[:n]) + " ..."
}
