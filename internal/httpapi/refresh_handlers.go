package httpapi

import (
	"net/http"
	"sync/atomic"

	"remotive-ranker/internal/refresh"
)

type RefreshHandler struct {
	RefreshStatus  *atomic.Value // stores refresh.Status
	TriggerRefresh func()
}

func (h RefreshHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := refresh.Status{}
	if v := h.RefreshStatus.Load(); v != nil {
		st = v.(refresh.Status)
	}
	writeJSON(w, st)
}

func (h RefreshHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := refresh.Status{}
	if v := h.RefreshStatus.Load(); v != nil {
		st = v.(refresh.Status)
	}
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.TriggerRefresh()
	writeJSON(w, map[string]any{"ok": true})
}
