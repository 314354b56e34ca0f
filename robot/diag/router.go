// Copyright Pitlane Robotics. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/pitlane-robotics/robocore/robot/core"
)

// NewHTTPRouter returns the diagnostics router over the given registry.
func NewHTTPRouter(registry *Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(accessLogDecorator)

	r.Get("/diag/ping", PingHandler)
	r.Get("/diag/state", func(w http.ResponseWriter, r *http.Request) { StateHandler(w, r, registry) })
	r.Get("/diag/subsystems/{name}", func(w http.ResponseWriter, r *http.Request) { SubsystemHandler(w, r, registry) })
	r.Post("/diag/subsystems/{name}/cancel", func(w http.ResponseWriter, r *http.Request) { CancelHandler(w, r, registry) })
	return r
}

// PingHandler answers liveness probes.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong"))
}

// StateHandler renders every registered subsystem.
func StateHandler(w http.ResponseWriter, r *http.Request, registry *Registry) {
	w.Write(registry.Describe().AsJSON())
}

// SubsystemHandler renders one subsystem by name.
func SubsystemHandler(w http.ResponseWriter, r *http.Request, registry *Registry) {
	name := chi.URLParam(r, "name")
	s, ok := registry.Find(name)
	if !ok {
		http.Error(w, "subsystem not found", http.StatusNotFound)
		return
	}
	render.JSON(w, r, s.Describe())
}

// CancelHandler cancels the in-flight operation of one subsystem. The owner
// identity, when arbitration is in use, is passed as the "owner" query
// parameter.
func CancelHandler(w http.ResponseWriter, r *http.Request, registry *Registry) {
	name := chi.URLParam(r, "name")
	s, ok := registry.Find(name)
	if !ok {
		http.Error(w, "subsystem not found", http.StatusNotFound)
		return
	}
	c, ok := s.(Cancelable)
	if !ok {
		http.Error(w, "subsystem is not cancelable", http.StatusBadRequest)
		return
	}

	c.AutoAssistCancel(core.Owner(r.URL.Query().Get("owner")))
	render.JSON(w, r, s.Describe())
}

func accessLogDecorator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("diag: -> %s %s", r.Method, r.URL)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := 200
		if ww.Status() != 0 {
			status = ww.Status()
		}

		if status/100 != 2 {
			log.Errorf("diag: <- %s %d", r.URL, status)
		} else {
			log.Debugf("diag: <- %s %d", r.URL, status)
		}
	})
}
