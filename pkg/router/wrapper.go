package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := router.baseCtx(r.Context())
		ctx = xcontext.WithHTTPRequest(ctx, r)

		if r.Method != method {
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Method is not allowed"))
			return
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = bindQuery(r, &req)
		default:
			err = bindJSON(r, &req)
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			writeError(ctx, w, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		handlerErr := func() error {
			for _, middleware := range router.befores {
				// Keep the current context when a middleware fails, the
				// closers below still need it.
				derivedCtx, err := middleware(ctx)
				if err != nil {
					return err
				}
				ctx = derivedCtx
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return err
			}

			writeResponse(ctx, w, resp)
			return nil
		}()

		if handlerErr != nil {
			writeError(ctx, w, handlerErr)
		}

		for _, closer := range router.closers {
			closer(ctx, handlerErr)
		}
	}
}

func bindJSON(r *http.Request, req any) error {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	if len(b) == 0 {
		return nil
	}

	return json.Unmarshal(b, req)
}

// bindQuery fills string, int, and bool fields from the query parameters
// named by their json tags. Fields tagged "-" are left for the handler.
func bindQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return errors.New("request must be a struct")
	}

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		queryVal := r.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return err
			}
			v.Field(i).SetInt(val)

		case reflect.Bool:
			val, err := strconv.ParseBool(queryVal)
			if err != nil {
				return err
			}
			v.Field(i).SetBool(val)
		}
	}

	return nil
}
