/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/julienschmidt/httprouter"
)

const maxBodySize = 64 << 10

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) int {
	data, err := json.Marshal(v)
	if err != nil {
		errs <- err

		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		return 0
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	written, err := w.Write(data)
	if err != nil {
		errs <- err
	}

	return written
}

func writeNoContent(cfg *Config, w http.ResponseWriter) {
	securityHeaders(cfg, w)
	w.WriteHeader(http.StatusNoContent)
}

func readBoard(w http.ResponseWriter, r *http.Request) (codenames.Board, error) {
	var b codenames.Board

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&b); err != nil {
		return codenames.Board{}, fmt.Errorf("%w: %w", codenames.ErrValidation, err)
	}

	return b, nil
}

func tokenFrom(r *http.Request) string {
	return codenames.BearerToken(r.Header.Get("Authorization"))
}

func roleFrom(ps httprouter.Params) (codenames.Role, error) {
	return codenames.ParseRole(ps.ByName("role"))
}

func logServed(cfg *Config, r *http.Request, what string, written int, startTime time.Time) {
	logf(cfg, "SERVE: %s (%s) to %s in %s",
		what,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func serveCreateRoom(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		b, err := readBoard(w, r)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		created, err := reg.CreateRoom(b)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		written := writeJSON(cfg, w, http.StatusCreated, created, errs)

		logf(cfg, "ROOMS: Created room %s for %s", created.RoomID, realIP(r))
		logServed(cfg, r, "New room", written, startTime)
	}
}

func serveRoomInfo(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		info, err := reg.GetRoom(ps.ByName("roomid"), tokenFrom(r))
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		written := writeJSON(cfg, w, http.StatusOK, info, errs)

		logServed(cfg, r, "Room "+ps.ByName("roomid"), written, startTime)
	}
}

func serveReplaceRoom(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		c, err := reg.Resolve(ps.ByName("roomid"), tokenFrom(r))
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		if !c.IsAdmin() {
			serveError(cfg, w, r, codenames.ErrUnauthorized, errs)

			return
		}

		b, err := readBoard(w, r)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		if err := c.Room.Replace(c, b); err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeNoContent(cfg, w)

		logf(cfg, "ROOMS: Replaced board of %s", c.Room.ID)
	}
}

func serveDeleteRoom(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")

		if err := reg.DeleteRoom(roomID, tokenFrom(r)); err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeNoContent(cfg, w)

		logf(cfg, "ROOMS: Deleted room %s", roomID)
	}
}

func serveReveal(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		cell, err := strconv.Atoi(ps.ByName("cell"))
		switch {
		case errors.Is(err, strconv.ErrRange):
			serveError(cfg, w, r, fmt.Errorf("%w: %s", codenames.ErrOutOfRange, ps.ByName("cell")), errs)

			return
		case err != nil:
			serveError(cfg, w, r, fmt.Errorf("%w: cell must be an integer", codenames.ErrValidation), errs)

			return
		}

		if err := reg.Reveal(ps.ByName("roomid"), tokenFrom(r), cell); err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeNoContent(cfg, w)
	}
}

func serveRole(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		me, err := reg.Me(ps.ByName("roomid"), tokenFrom(r))
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeJSON(cfg, w, http.StatusOK, me.Role, errs)
	}
}

func serveShare(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role, err := roleFrom(ps)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		token, err := reg.IssueShare(ps.ByName("roomid"), tokenFrom(r), role)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeJSON(cfg, w, http.StatusOK, token, errs)

		logf(cfg, "ROOMS: Issued %s share for %s", role, ps.ByName("roomid"))
	}
}

func serveUsers(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		users, err := reg.ListParticipants(ps.ByName("roomid"), tokenFrom(r))
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeJSON(cfg, w, http.StatusOK, users, errs)
	}
}

func serveMe(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		me, err := reg.Me(ps.ByName("roomid"), tokenFrom(r))
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeJSON(cfg, w, http.StatusOK, me, errs)
	}
}

func serveRemoveUser(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID, userID := ps.ByName("roomid"), ps.ByName("userid")

		if err := reg.RemoveParticipant(roomID, tokenFrom(r), userID); err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeNoContent(cfg, w)

		logf(cfg, "ROOMS: Removed %s from %s", userID, roomID)
	}
}

func serveChangeRole(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role, err := roleFrom(ps)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		roomID, userID := ps.ByName("roomid"), ps.ByName("userid")

		if err := reg.ChangeRole(roomID, tokenFrom(r), userID, role); err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		writeNoContent(cfg, w)

		logf(cfg, "ROOMS: %s is now %s in %s", userID, role, roomID)
	}
}

// registerRooms sets up the room API:
//   - /room                         → create
//   - /room/:roomid                 → read, replace, delete
//   - /room/:roomid/:cell           → reveal
//   - /roomShare/:roomid/:role[/qr] → issue a share token (optionally as QR)
//   - /user/:roomid[/...]           → participants
//   - /roomSubscription/:roomid     → websocket events
func registerRooms(cfg *Config, reg *codenames.Registry, mux *httprouter.Router, errs chan<- error) {
	mux.POST(cfg.prefix+"/room", serveCreateRoom(cfg, reg, errs))
	mux.GET(cfg.prefix+"/room/:roomid", serveRoomInfo(cfg, reg, errs))
	mux.PATCH(cfg.prefix+"/room/:roomid", serveReplaceRoom(cfg, reg, errs))
	mux.DELETE(cfg.prefix+"/room/:roomid", serveDeleteRoom(cfg, reg, errs))
	mux.PUT(cfg.prefix+"/room/:roomid/:cell", serveReveal(cfg, reg, errs))

	mux.GET(cfg.prefix+"/role/:roomid", serveRole(cfg, reg, errs))

	mux.POST(cfg.prefix+"/roomShare/:roomid/:role", serveShare(cfg, reg, errs))
	mux.POST(cfg.prefix+"/roomShare/:roomid/:role/qr", serveShareQR(cfg, reg, errs))

	mux.GET(cfg.prefix+"/user/:roomid", serveUsers(cfg, reg, errs))
	mux.GET(cfg.prefix+"/user/:roomid/me", serveMe(cfg, reg, errs))
	mux.DELETE(cfg.prefix+"/user/:roomid/:userid", serveRemoveUser(cfg, reg, errs))
	mux.PATCH(cfg.prefix+"/user/:roomid/:userid/role/:role", serveChangeRole(cfg, reg, errs))

	mux.GET(cfg.prefix+"/roomSubscription/:roomid", serveSubscription(cfg, reg, errs))
}
