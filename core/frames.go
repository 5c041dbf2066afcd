package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Reserved control frame types, handled at the connection layer.
const (
	TypeAck   = "ACK"
	TypeError = "ERROR"
)

// Inbound domain event types.
const (
	TypeSportSensing       = "sport_sensing"
	TypeHeartSensing       = "heart_sensing"
	TypePairRequest        = "pair_request"
	TypeDeviceStatusUpdate = "device_status_update"
)

// Outbound frame types.
const (
	TypeInitUser     = "init_ws_user"
	TypeStartSession = "start_session"
	TypePauseSession = "pause_session"
	TypeSaveSession  = "save_session"
)

// Sport sub-types carried in sport_sensing frames.
const (
	SportPunch  = "punch"
	SportPushup = "pushup"
	SportSitup  = "situp"
	SportSquat  = "squat"
)

// OutboundFrame is one JSON message sent to the server. ID is generated per
// frame so server-side ACK/ERROR responses can echo it back; the client only
// logs the echo, it does not block on it.
type OutboundFrame struct {
	Type string      `json:"type"`
	ID   string      `json:"id,omitempty"`
	Data interface{} `json:"data"`
}

func NewOutboundFrame(frameType string, data interface{}) *OutboundFrame {
	return &OutboundFrame{
		Type: frameType,
		ID:   uuid.NewString(),
		Data: data,
	}
}

// InitUserData is the handshake payload sent right after the socket opens.
type InitUserData struct {
	UserUUID string `json:"user_uuid"`
}

// SessionData is the payload of start_session, pause_session and
// save_session frames.
type SessionData struct {
	SportType  string `json:"sport_type"`
	DeviceUUID string `json:"device_uuid"`
}

// inboundFrame is the envelope of one received message. The server uses
// "payload" for control frames and "data" for domain events; both are kept
// raw until a handler picks the frame up.
type inboundFrame struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
	Data    json.RawMessage `json:"data"`
}

// body returns whichever of data/payload the frame carries.
func (f *inboundFrame) body() json.RawMessage {
	if f.Data != nil {
		return f.Data
	}
	return f.Payload
}

type errorPayload struct {
	Message string `json:"message"`
}

// SportSensingPayload is the wire shape of a sport_sensing event. Field
// presence varies by sport_type: punch carries metrics, the counted
// exercises carry only count.
type SportSensingPayload struct {
	SportType string       `json:"sport_type"`
	Detection int64        `json:"detection"`
	Count     int          `json:"count"`
	Metrics   SportMetrics `json:"metrics"`
}

type SportMetrics struct {
	PunchPower     float64 `json:"punchPower"`
	RetractionTime float64 `json:"retractionTime"`
}

type HeartSensingPayload struct {
	UserUUID  string `json:"user_uuid"`
	SportType string `json:"sport_type"`
	HeartRate int    `json:"heart_rate"`
	SpO2      int    `json:"spo2"`
	Status    string `json:"status"`
}

type PairRequestPayload struct {
	DeviceUUID string `json:"device_uuid"`
	Status     string `json:"status"`
}

type DeviceStatusPayload struct {
	DeviceUUID string `json:"device_uuid"`
	Status     string `json:"status"`
}

// PunchReading is the adapted punch payload delivered to subscribers.
type PunchReading struct {
	Timestamp      int64   `json:"timestamp"`
	RetractionTime float64 `json:"retractionTime"`
	PunchPower     float64 `json:"punchPower"`
	Count          int     `json:"count"`
}

// CountReading is the adapted payload for the counted exercises
// (pushup, situp, squat).
type CountReading struct {
	SportType string `json:"sport_type"`
	Timestamp int64  `json:"timestamp"`
	Count     int    `json:"count"`
}

type HeartReading struct {
	UserUUID  string `json:"user_uuid"`
	SportType string `json:"sport_type"`
	HeartRate int    `json:"heart_rate"`
	SpO2      int    `json:"spo2"`
	Status    string `json:"status"`
}

type PairUpdate struct {
	DeviceUUID string `json:"device_uuid"`
	Status     string `json:"status"`
}

type DeviceStatus struct {
	DeviceUUID string `json:"device_uuid"`
	Status     string `json:"status"`
}
