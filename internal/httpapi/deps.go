package httpapi

import (
	"database/sql"
	"sync/atomic"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal        *atomic.Value // stores config.Config
	RefreshStatus *atomic.Value // stores refresh.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Kicks one refresh in the background (inject for testability).
	TriggerRefresh func()
}
