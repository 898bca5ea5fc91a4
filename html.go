/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/julienschmidt/httprouter"
)

var apiRoutes = []string{
	"POST   /room",
	"GET    /room/:roomid",
	"PATCH  /room/:roomid",
	"DELETE /room/:roomid",
	"PUT    /room/:roomid/:cell",
	"GET    /role/:roomid",
	"POST   /roomShare/:roomid/:role",
	"POST   /roomShare/:roomid/:role/qr",
	"GET    /user/:roomid",
	"GET    /user/:roomid/me",
	"DELETE /user/:roomid/:userid",
	"PATCH  /user/:roomid/:userid/role/:role",
	"GET    /roomSubscription/:roomid (websocket)",
}

func writeText(cfg *Config, w http.ResponseWriter, data string, errs chan<- error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)

	_, err := w.Write([]byte(data))
	if err != nil {
		errs <- err
	}
}

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var body strings.Builder

		for _, route := range apiRoutes {
			body.WriteString(route)
			body.WriteString("\n")
		}

		writeText(cfg, w, newPage("codenames v"+releaseVersion, body.String()), errs)
	}
}

func serveHealthCheck(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Cache-Control", "no-store")

		writeText(cfg, w, "Ok ("+strconv.Itoa(reg.Len())+" rooms)\n", errs)
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))

		writeText(cfg, w, "User-agent: *\nDisallow: /\n", errs)
	}
}
