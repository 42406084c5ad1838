package regtest

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Option tunes the http client used against the hosted regtest api.
type Option struct {
	ConnTimeout  time.Duration
	ReadTimeOut  time.Duration
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RetryMax only applies to transport failures where no response was
	// received. Deposits are not idempotent, keep it at 0 unless the caller
	// checks for duplicate effects.
	RetryMax int
}

type LogWrapper struct {
	logger *zap.Logger
}

var _ retryablehttp.LeveledLogger = (*LogWrapper)(nil)

func (l *LogWrapper) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, keysAndValues...)
}

func (l *LogWrapper) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *LogWrapper) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *LogWrapper) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Warnw(msg, keysAndValues...)
}

func (a *api) WithLogger(logger *zap.Logger) *api {
	a.logger = logger
	a.httpClient.Logger = &LogWrapper{logger: logger}
	return a
}

func (a *api) WithOption(option *Option) *api {
	setHttpClientOption(a.httpClient, option)
	return a
}

func defaultOption() *Option {
	return &Option{
		ConnTimeout:  10 * time.Second,
		ReadTimeOut:  60 * time.Second,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 3 * time.Second,
		RetryMax:     0,
	}
}

func defaultHttpClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.HTTPClient = &http.Client{}
	c.Backoff = retryablehttp.LinearJitterBackoff
	c.ErrorHandler = nil
	c.Logger = nil
	c.CheckRetry = checkRetry
	setHttpClientOption(c, defaultOption())
	return c
}

// checkRetry never retries once a response arrived, so non-2xx bodies reach
// the caller instead of being drained by the client.
func checkRetry(ctx context.Context, res *http.Response, err error) (bool, error) {
	doRetry, err := retryablehttp.ErrorPropagatedRetryPolicy(ctx, res, err)
	if doRetry && res != nil {
		return false, nil
	}
	return doRetry, err
}

func setHttpClientOption(c *retryablehttp.Client, o *Option) {
	if o.ConnTimeout > 0 {
		c.HTTPClient.Transport = transportWithTimeout(o.ConnTimeout)
	}
	if o.ReadTimeOut > 0 {
		c.HTTPClient.Timeout = o.ReadTimeOut
	}
	if o.RetryWaitMin > 0 {
		c.RetryWaitMin = o.RetryWaitMin
	}
	if o.RetryWaitMax > 0 {
		c.RetryWaitMax = o.RetryWaitMax
	}
	c.RetryMax = o.RetryMax
}

func transportWithTimeout(d time.Duration) *http.Transport {
	dtp, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil
	}
	tp := dtp.Clone()
	dial := &net.Dialer{Timeout: d, KeepAlive: 30 * time.Second}
	tp.DialContext = (dial).DialContext
	return tp
}
