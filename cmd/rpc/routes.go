package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Meridian RPC Paths
const (
	VersionRoutePath = "/v1/"
	TxRoutePath      = "/v1/tx"
	HeightRoutePath  = "/v1/query/height"
	ConfigRoutePath  = "/v1/gov/config"
	StateRoutePath   = "/v1/gov/state"
	StakerRoutePath  = "/v1/gov/staker/:address"
	StakersRoutePath = "/v1/gov/stakers"
	PollRoutePath    = "/v1/gov/poll/:id"
	PollsRoutePath   = "/v1/gov/polls"
)

// routeHandler is a single named RPC route
type routeHandler struct {
	Method  string
	Path    string
	Handler httprouter.Handle
}

// createRouter() registers every route on a fresh router
func createRouter(s *Server) *httprouter.Router {
	router := httprouter.New()
	for _, route := range []routeHandler{
		{http.MethodGet, VersionRoutePath, s.Version},
		{http.MethodPost, TxRoutePath, s.Transaction},
		{http.MethodGet, HeightRoutePath, s.Height},
		{http.MethodGet, ConfigRoutePath, s.Config},
		{http.MethodGet, StateRoutePath, s.State},
		{http.MethodGet, StakerRoutePath, s.Staker},
		{http.MethodGet, StakersRoutePath, s.Stakers},
		{http.MethodGet, PollRoutePath, s.Poll},
		{http.MethodGet, PollsRoutePath, s.Polls},
	} {
		router.Handle(route.Method, route.Path, route.Handler)
	}
	return router
}
