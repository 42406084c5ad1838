package regtest

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"go.uber.org/zap"
)

const (
	depositPath = "/regtest/chain/deposit"
	minePath    = "/regtest/chain/mine"
	payPath     = "/regtest/channel/pay"
)

// RemoteExternalAddress is a fixed, valid regtest p2wpkh address used as the
// "outside" destination when no local node can hand out fresh ones.
var RemoteExternalAddress = mustP2WPKH("751e76e8199196d454941c45d1b3a323f1433bd6")

func mustP2WPKH(hash string) string {
	h, err := hex.DecodeString(hash)
	if err != nil {
		panic(err)
	}
	addr, err := btcutil.NewAddressWitnessPubKeyHash(h, &chaincfg.RegressionNetParams)
	if err != nil {
		panic(err)
	}
	return addr.EncodeAddress()
}

type api struct {
	BaseURL    string
	logger     *zap.Logger
	httpClient *retryablehttp.Client
}

func newAPI(baseURL string) *api {
	return &api{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		logger:     zap.NewNop(),
		httpClient: defaultHttpClient(),
	}
}

func (a *api) call(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	rReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create api request")
	}
	res, err := a.httpClient.Do(rReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call api request")
	}
	return res, nil
}

func (a *api) drain(res *http.Response) {
	defer func() {
		_ = res.Body.Close()
	}()
	_, err := io.Copy(io.Discard, res.Body)
	if err != nil {
		a.logger.Warn("failed to drain response body")
	}
}

// post sends body as json to path and returns the plain text response.
func (a *api) post(ctx context.Context, path string, body interface{}) (string, error) {
	jbytes, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+path, bytes.NewReader(jbytes))
	if err != nil {
		return "", errors.Wrap(err, "failed to build request")
	}
	res, err := a.call(req)
	if err != nil {
		return "", err
	}
	defer a.drain(res)

	text, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s response", path)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &BackendApiError{Path: path, Status: res.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	a.logger.Debug("blocktank call", zap.String("path", path), zap.Int("status", res.StatusCode))
	return strings.TrimSpace(string(text)), nil
}

// Remote proxies chain and channel operations to the hosted regtest api.
type Remote struct {
	api *api
}

var _ Chain = (*Remote)(nil)

func NewRemote(baseURL string) *Remote {
	return &Remote{api: newAPI(baseURL)}
}

func (r *Remote) WithLogger(logger *zap.Logger) *Remote {
	r.api.WithLogger(logger)
	return r
}

func (r *Remote) WithOption(option *Option) *Remote {
	r.api.WithOption(option)
	return r
}

func (r *Remote) Backend() config.Backend {
	return config.BackendRegtest
}

type depositRequest struct {
	Address   string `json:"address"`
	AmountSat *int64 `json:"amountSat,omitempty"`
}

type mineRequest struct {
	Count int `json:"count"`
}

type payRequest struct {
	Invoice   string `json:"invoice"`
	AmountSat *int64 `json:"amountSat,omitempty"`
}

func optionalSats(a btcutil.Amount) *int64 {
	if a == 0 {
		return nil
	}
	sats := int64(a)
	return &sats
}

// Deposit asks the service to fund address. A zero amount lets the service
// pick its default.
func (r *Remote) Deposit(ctx context.Context, address string, amount btcutil.Amount) (string, error) {
	return r.api.post(ctx, depositPath, &depositRequest{Address: address, AmountSat: optionalSats(amount)})
}

func (r *Remote) MineBlocks(ctx context.Context, count int) error {
	if count < 0 {
		return errors.Errorf("cannot mine %d blocks", count)
	}
	if count == 0 {
		return nil
	}
	_, err := r.api.post(ctx, minePath, &mineRequest{Count: count})
	return err
}

// PayInvoice makes the service's lightning node pay invoice and returns the
// payment id.
func (r *Remote) PayInvoice(ctx context.Context, invoice string, amount btcutil.Amount) (string, error) {
	return r.api.post(ctx, payPath, &payRequest{Invoice: invoice, AmountSat: optionalSats(amount)})
}

func (r *Remote) ExternalAddress(context.Context) (string, error) {
	return RemoteExternalAddress, nil
}

// EnsureFunds is a no-op, the hosted service funds itself.
func (r *Remote) EnsureFunds(context.Context, btcutil.Amount) error {
	r.api.logger.Debug("ensureFunds skipped on remote backend")
	return nil
}

func (r *Remote) Close() error {
	r.api.httpClient.HTTPClient.CloseIdleConnections()
	return nil
}
