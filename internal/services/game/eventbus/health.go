package eventbus

import (
	"maps"
	"slices"
)

// Warning flags a topic with more listeners than the configured maximum.
type Warning struct {
	Topic     Topic `json:"topic"`
	Listeners int   `json:"listeners"`
	Max       int   `json:"max"`
}

// Health is a diagnostic summary of the bus.
type Health struct {
	Healthy              bool          `json:"healthy"`
	Topics               map[Topic]int `json:"topics"`
	TotalListeners       int           `json:"totalListeners"`
	MaxListenersPerEvent int           `json:"maxListenersPerEvent"`
	Warnings             []Warning     `json:"warnings"`
	HistorySize          int           `json:"historySize"`
	ChainDepth           int           `json:"chainDepth"`
}

// HealthStatus reports listener counts per topic and flags topics above
// the listener maximum. It is advisory; emission is never blocked.
func (b *Bus) HealthStatus() Health {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := Health{
		Healthy:              true,
		Topics:               make(map[Topic]int, len(b.listeners)),
		MaxListenersPerEvent: b.maxListeners,
		Warnings:             []Warning{},
		HistorySize:          len(b.history),
		ChainDepth:           len(b.chain),
	}
	for _, topic := range slices.Sorted(maps.Keys(b.listeners)) {
		count := len(b.listeners[topic])
		h.Topics[topic] = count
		h.TotalListeners += count
		if count > b.maxListeners {
			h.Healthy = false
			h.Warnings = append(h.Warnings, Warning{Topic: topic, Listeners: count, Max: b.maxListeners})
			b.log.Warn("possible listener leak", "topic", string(topic), "listeners", count, "max", b.maxListeners)
		}
	}
	return h
}
