package handler

import (
	"net/http"
	"time"
)

// HandleHealth answers the liveness probe.
//
// HTTP: GET /api/health
// RESPONSE: 200 {"ok": true, "ts": 1724800000000}
//
// ts is the server's current time in Unix milliseconds — handy for spotting
// clock skew between the API and whatever is probing it. No dependencies are
// touched: a healthy listener is all this endpoint claims.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		OK bool  `json:"ok"`
		TS int64 `json:"ts"`
	}{
		OK: true,
		TS: time.Now().UnixMilli(),
	})
}
