package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
)

// Middleware runs before the handler. Returning an error stops the request.
type Middleware func(ctx context.Context) (context.Context, error)

// Endpoint adapts one engine operation to HTTP. The engine stays agnostic of
// the transport; this is the only place requests and results are
// (de)serialized.
type Endpoint[Request, Response any] struct {
	Method string
	Path   string
	Before []Middleware
	Handle func(ctx context.Context, req *Request) (*Response, error)
}

type errorResponse struct {
	Error struct {
		Code    errorx.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (e *Endpoint[Request, Response]) Register(
	mux *http.ServeMux, base func(r *http.Request) context.Context,
) {
	mux.HandleFunc(e.Path, func(w http.ResponseWriter, r *http.Request) {
		if e.Method != "" && r.Method != e.Method {
			http.Error(w, "method is not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := base(r)
		for _, m := range e.Before {
			// Middlewares return errorx errors; anything else falls back to
			// the unknown envelope in writeError.
			newCtx, err := m(ctx)
			if err != nil {
				writeError(w, err)
				return
			}

			ctx = newCtx
		}

		var req Request
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, errorx.New(errorx.BadRequest, "Cannot parse the request"))
				return
			}
		}

		resp, err := e.Handle(ctx, &req)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Request to %s failed: %v", e.Path, err)
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write response: %v", err)
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	var resp errorResponse

	var xerr errorx.Error
	if errors.As(err, &xerr) {
		resp.Error.Code = xerr.Code
		resp.Error.Message = xerr.Message
	} else {
		resp.Error.Code = errorx.Unknown.Code
		resp.Error.Message = errorx.Unknown.Message
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
