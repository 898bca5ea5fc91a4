/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// mobile-friendly size
const qrSize = 320

type shareInfo struct {
	Room  string `json:"room"`
	Token string `json:"token"`
}

// shareLink points at the client's share-receive route for an online room.
func shareLink(cfg *Config, r *http.Request, roomID, token string) (string, error) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	info, err := json.Marshal(shareInfo{Room: roomID, Token: token})
	if err != nil {
		return "", err
	}

	return scheme + "://" + r.Host + cfg.prefix + "/#/s/o/" + base64.StdEncoding.EncodeToString(info), nil
}

// serveShareQR issues a share token exactly like serveShare, and returns it
// as a PNG QR code of the share link.
func serveShareQR(cfg *Config, reg *codenames.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomid")

		role, err := roleFrom(ps)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		token, err := reg.IssueShare(roomID, tokenFrom(r), role)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		link, err := shareLink(cfg, r, roomID, token)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
		if err != nil {
			serveError(cfg, w, r, err, errs)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Share-Link", link)
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err

			return
		}

		logf(cfg, "ROOMS: Issued %s share QR for %s", role, roomID)
	}
}
