package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/xcontext"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
}

// redirector is implemented by responses redirecting the client instead of
// carrying a body.
type redirector interface {
	RedirectInfo() (int, string)
}

// statuser is implemented by responses written with a non-200 success code.
type statuser interface {
	StatusInfo() int
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp any) {
	if r, ok := resp.(redirector); ok {
		code, url := r.RedirectInfo()
		http.Redirect(w, xcontext.HTTPRequest(ctx), url, code)
		return
	}

	status := http.StatusOK
	if s, ok := resp.(statuser); ok {
		status = s.StatusInfo()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dataEnvelope{Data: resp}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode the response: %v", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	xerr := errorx.Error{}
	if !errors.As(err, &xerr) {
		xcontext.Logger(ctx).Errorf("An unexpected error occurred: %v", err)
		xerr = errorx.Unknown
	}

	status, typeName := httpInfo(xerr.Code)
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)

	encodeErr := json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorBody{
			Message: xerr.Message,
			Type:    typeName,
			Details: xerr.Details,
		},
	})
	if encodeErr != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode the error response: %v", encodeErr)
	}
}

func httpInfo(code errorx.Code) (int, string) {
	switch code {
	case errorx.Validation:
		return http.StatusUnprocessableEntity, "ValidationError"
	case errorx.BadRequest:
		return http.StatusBadRequest, "BadRequestError"
	case errorx.AlreadyExists:
		return http.StatusBadRequest, "AlreadyExistsError"
	case errorx.NotFound:
		return http.StatusNotFound, "NotFoundError"
	case errorx.Unauthenticated:
		return http.StatusUnauthorized, "AuthenticationError"
	case errorx.PermissionDenied:
		return http.StatusForbidden, "PermissionDeniedError"
	case errorx.Conflict:
		return http.StatusConflict, "ConflictError"
	case errorx.Unavailable:
		return http.StatusBadGateway, "UpstreamError"
	case errorx.BadResponse:
		return http.StatusBadGateway, "UpstreamError"
	default:
		return http.StatusInternalServerError, "InternalServerError"
	}
}
