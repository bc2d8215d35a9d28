package app

import (
	"context"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
)

// httpImageResolver fetches remote photo sources for report embedding.
// It is the only place the report pipeline touches the network, and it
// is injected so the builder itself stays I/O-free.
type httpImageResolver struct {
	timeout time.Duration
}

func newHTTPImageResolver() *httpImageResolver {
	return &httpImageResolver{timeout: 10 * time.Second}
}

func (r *httpImageResolver) Resolve(ctx context.Context, src string) ([]byte, error) {
	var body []byte
	err := gout.GET(src).
		WithContext(ctx).
		SetTimeout(r.timeout).
		BindBody(&body).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "fetch image %s", src)
	}
	if len(body) == 0 {
		return nil, errors.Errorf("empty response for image %s", src)
	}
	return body, nil
}
