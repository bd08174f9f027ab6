package middleware

import (
	"context"
	"errors"

	"github.com/wishy-app/backend/pkg/errorx"
	"github.com/wishy-app/backend/pkg/router"
	"github.com/wishy-app/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		r := xcontext.HTTPRequest(ctx)
		if r == nil {
			return
		}

		lg := xcontext.Logger(ctx)
		if err == nil {
			lg.Infof("%s | %s", r.Method, r.URL.Path)
			return
		}

		xerr := errorx.Error{}
		if errors.As(err, &xerr) {
			lg.Warnf("%s | %s | %s", r.Method, r.URL.Path, xerr.Message)
		} else {
			lg.Errorf("%s | %s | %v", r.Method, r.URL.Path, err)
		}
	}
}
