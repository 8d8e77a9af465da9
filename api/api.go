// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	stakingapi "github.com/helixstake/helix/api/staking"
	"github.com/helixstake/helix/api/subscriptions"
	"github.com/helixstake/helix/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New returns the api handler and a close func.
// broadcaster may be nil; the subscription routes are then not mounted.
func New(
	resource *stakingapi.Staking,
	broadcaster *subscriptions.Broadcaster,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	resource.Mount(router)

	var closeSubs func()
	if broadcaster != nil {
		subs := subscriptions.New(broadcaster)
		subs.Mount(router, "/subscriptions")
		closeSubs = subs.Close
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	var handler http.Handler = router
	if opts.EnableMetrics {
		handler = metricsHandler(handler)
	}
	handler = handlers.CompressHandler(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, func() {
		if closeSubs != nil {
			closeSubs() // subscriptions handles hijacked conns, which need to be closed
		}
	}
}
