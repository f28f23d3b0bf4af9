// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string     `json:"status"` // healthy, degraded, starting
	HasSnapshot   bool       `json:"hasSnapshot"`
	Fresh         bool       `json:"fresh"`
	Products      int        `json:"products"`
	LastSyncTime  *time.Time `json:"lastSyncTime,omitempty"`
	LastSyncError string     `json:"lastSyncError,omitempty"`
	Uptime        float64    `json:"uptime"`
}

// Health handles GET /health. It always answers 200 while the process is
// up; the status field says whether the catalog is being served fresh.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Status()

	health := HealthStatus{
		HasSnapshot: st.HasSnapshot,
		Fresh:       st.Fresh,
		Products:    st.Products,
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if h.sync != nil {
		if last := h.sync.LastSyncTime(); !last.IsZero() {
			health.LastSyncTime = &last
		}
		if err := h.sync.LastError(); err != nil {
			health.LastSyncError = err.Error()
		}
	}

	switch {
	case !st.HasSnapshot:
		health.Status = "starting"
	case !st.Fresh || st.LastError != "":
		health.Status = "degraded"
	default:
		health.Status = "healthy"
	}

	respondJSON(w, http.StatusOK, "", &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /health/ready. It is 503 until a snapshot exists,
// fresh or stale, so a load balancer holds traffic until products can be served.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Status()

	status := "ready"
	code := http.StatusOK
	if !st.HasSnapshot {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, "", &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"hasSnapshot": st.HasSnapshot,
			"fresh":       st.Fresh,
			"uptime":      time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
