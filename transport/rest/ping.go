package rest

import (
	"context"
	"net/http"
)

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
}

type pingHandler struct {
	check func(ctx context.Context) error
}

// NewPingHandler answers "pong" while check passes; a nil check always passes.
func NewPingHandler(check func(ctx context.Context) error) PingHandler {
	return &pingHandler{check: check}
}

func (that *pingHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if that.check != nil {
		if err := that.check(r.Context()); err != nil {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
