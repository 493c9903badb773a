package httpapi

import "net/http"

// NewMux wires every route. The caller wraps it with Chain(...) and owns
// the http.Server.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	lh := ListingsHandler{DB: d.DB, CfgVal: d.CfgVal}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))
	mux.HandleFunc("/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.Export,
	}))

	rh := RefreshHandler{RefreshStatus: d.RefreshStatus, TriggerRefresh: d.TriggerRefresh}
	mux.HandleFunc("/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Run,
	}))
	mux.HandleFunc("/refresh/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/telegram", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetTelegramToken,
		http.MethodDelete: sh.DeleteTelegramToken,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
