package sse

import (
	"time"
)

// CatalogReloadedEvent is broadcast after a catalog snapshot was swapped in.
type CatalogReloadedEvent struct {
	Source     string    `json:"source"`
	Version    uint64    `json:"version"`
	Products   int       `json:"products"`
	Invalid    int       `json:"invalid"`
	Duplicates int       `json:"duplicates"`
	Timestamp  time.Time `json:"timestamp"`
}

// CatalogReloadFailedEvent is broadcast when a reload gave up.
type CatalogReloadFailedEvent struct {
	Source    string    `json:"source"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// CatalogNotifier is the interface services use to emit catalog events.
type CatalogNotifier interface {
	NotifyCatalogReloaded(event CatalogReloadedEvent)
	NotifyCatalogReloadFailed(event CatalogReloadFailedEvent)
}

// HubNotifier implements CatalogNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyCatalogReloaded(event CatalogReloadedEvent) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(EventCatalogReloaded, event)
}

func (n *HubNotifier) NotifyCatalogReloadFailed(event CatalogReloadFailedEvent) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(EventCatalogReloadFailed, event)
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) NotifyCatalogReloaded(CatalogReloadedEvent)         {}
func (NopNotifier) NotifyCatalogReloadFailed(CatalogReloadFailedEvent) {}
