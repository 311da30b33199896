package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/case_dashboard/logging"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "session_id"
)

type ctxKey int

const sessionKey ctxKey = iota

// corsMiddleware allows the dashboard front-end origin. Preflight requests end here.
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case origin == "*":
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case r.Header.Get("Origin") == origin:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sessionHeader)
			w.Header().Set("Access-Control-Expose-Headers", sessionHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionMiddleware attaches the caller's view session, issuing a new one when absent.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			if c, err := r.Cookie(sessionCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewV4().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(sessionHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, id)))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		logging.Infof("%s %s -> %d (%d bytes) in %s [%s]",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(started), middleware.GetReqID(r.Context()))
	})
}
