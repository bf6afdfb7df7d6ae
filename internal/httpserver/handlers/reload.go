package handlers

import (
	"net/http"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
)

// Reload triggers a manual fleet reload and geocode prewarm
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fleetTriggered := false
		select {
		case d.ReloadTrigger <- struct{}{}:
			fleetTriggered = true
			d.Logger.Info("manual fleet reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
		default:
			d.Logger.Warn("fleet reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}

		prewarmTriggered := false
		if d.PrewarmTrigger != nil {
			select {
			case d.PrewarmTrigger <- struct{}{}:
				prewarmTriggered = true
				d.Logger.Info("manual geocode prewarm triggered via endpoint",
					logger.String("remote_ip", r.RemoteAddr))
			default:
				d.Logger.Warn("geocode prewarm already in progress",
					logger.String("remote_ip", r.RemoteAddr))
			}
		}

		if fleetTriggered || prewarmTriggered {
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("reload triggered\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		} else {
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("reload already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}
