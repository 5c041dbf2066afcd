package core

import (
	"encoding/json"
	"log/slog"
)

// Handlers adapt wire payloads into the shapes subscribers expect and
// publish them on the bus. Missing optional fields decode to their zero
// value; a handler never fails on an absent field. Delivery to a subscriber
// that is not installed is a silent drop, not an error.
type Handlers struct {
	bus *Bus
	log *slog.Logger
}

func NewHandlers(bus *Bus, log *slog.Logger) *Handlers {
	return &Handlers{bus: bus, log: log}
}

// RegisterAll installs every domain event handler on the dispatcher.
func (h *Handlers) RegisterAll(d *Dispatcher) {
	d.Register(TypeSportSensing, h.HandleSportSensing)
	d.Register(TypeHeartSensing, h.HandleHeartSensing)
	d.Register(TypePairRequest, h.HandlePairRequest)
	d.Register(TypeDeviceStatusUpdate, h.HandleDeviceStatus)
}

// HandleSportSensing routes exercise telemetry by sport_type. Unknown
// sub-types follow the same log-and-drop policy as unknown frame types.
func (h *Handlers) HandleSportSensing(data json.RawMessage) {
	var p SportSensingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warn("Malformed sport_sensing payload", "error", err)
		return
	}

	switch p.SportType {
	case SportPunch:
		h.bus.Publish(Event{Kind: EventPunch, Data: PunchReading{
			Timestamp:      p.Detection,
			RetractionTime: p.Metrics.RetractionTime,
			PunchPower:     p.Metrics.PunchPower,
			Count:          p.Count,
		}})
	case SportPushup:
		h.publishCount(EventPushup, p)
	case SportSitup:
		h.publishCount(EventSitup, p)
	case SportSquat:
		h.publishCount(EventSquat, p)
	default:
		h.log.Warn("Unknown sport type", "sport_type", p.SportType)
	}
}

func (h *Handlers) publishCount(kind EventKind, p SportSensingPayload) {
	h.bus.Publish(Event{Kind: kind, Data: CountReading{
		SportType: p.SportType,
		Timestamp: p.Detection,
		Count:     p.Count,
	}})
}

func (h *Handlers) HandleHeartSensing(data json.RawMessage) {
	var p HeartSensingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warn("Malformed heart_sensing payload", "error", err)
		return
	}
	h.bus.Publish(Event{Kind: EventHeart, Data: HeartReading{
		UserUUID:  p.UserUUID,
		SportType: p.SportType,
		HeartRate: p.HeartRate,
		SpO2:      p.SpO2,
		Status:    p.Status,
	}})
}

func (h *Handlers) HandlePairRequest(data json.RawMessage) {
	var p PairRequestPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warn("Malformed pair_request payload", "error", err)
		return
	}
	h.bus.Publish(Event{Kind: EventPair, Data: PairUpdate{
		DeviceUUID: p.DeviceUUID,
		Status:     p.Status,
	}})
}

func (h *Handlers) HandleDeviceStatus(data json.RawMessage) {
	var p DeviceStatusPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.log.Warn("Malformed device_status_update payload", "error", err)
		return
	}
	h.bus.Publish(Event{Kind: EventDeviceStatus, Data: DeviceStatus{
		DeviceUUID: p.DeviceUUID,
		Status:     p.Status,
	}})
}
