// Package downloader provides the HTTP GET collaborator used by the update
// client for discovery and update requests.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dyndns/common"
	"dyndns/config"
	"dyndns/log"
)

const defaultMaxRead = 16 * 1024

type HTTP struct {
	timeout time.Duration
	maxRead int64
}

func New(ctx context.Context, conf config.Download) (*HTTP, error) {
	ctx = log.SWith(ctx, log.Stage("init:downloader"))

	var c config.DownloadConfig
	if err := common.WeakDecodeMap(conf.Config, &c); err != nil {
		log.S(ctx).Errorw("bad config", zap.Error(err), "config", conf.Config)
		return nil, fmt.Errorf(`bad config: %w`, err)
	}

	d := &HTTP{
		timeout: time.Duration(c.Timeout),
		maxRead: c.MaxRead,
	}
	if d.maxRead <= 0 {
		d.maxRead = defaultMaxRead
	}

	return d, nil
}

// Download performs one GET and returns the response body, capped at the
// configured read limit. A non-2xx status is an error.
func (d *HTTP) Download(ctx context.Context, url, userAgent string) ([]byte, error) {
	client := http.DefaultClient

	if ctxClient := ctx.Value(common.HttpClientKey); ctxClient != nil {
		client = ctxClient.(*http.Client)
	}

	if d.timeout > 0 {
		tCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		ctx = tCtx
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		log.S(ctx).Errorw("new request failed", zap.Error(err))
		return nil, fmt.Errorf("new request failed: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	// update URLs embed the password in the userinfo, never log them raw
	ctx = log.SWith(ctx, "url", req.URL.Redacted(), "timeout", d.timeout)

	elapsed := log.Elapsed("elapsed")
	resp, err := client.Do(req)
	if err != nil {
		log.S(ctx).Warnw("connection failed", zap.Error(err))
		return nil, fmt.Errorf(`connection failed: %w`, err)
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.S(ctx).Warnw("close body failed", zap.Error(err))
		}
	}(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxRead))
	if err != nil {
		log.S(ctx).Warnw("receiving response failed", zap.Error(err))
		return nil, fmt.Errorf(`failed receiving response: %w`, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.S(ctx).Warnw("request rejected", "status", resp.Status, log.ByteField("body", data))
		return nil, fmt.Errorf("request rejected: %s", resp.Status)
	}

	log.S(ctx).Debugw("download finished", "status", resp.Status, elapsed)

	return data, nil
}
