package regtest

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int               `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fakeBitcoind answers the handful of json-rpc methods the local client uses.
// Coinbase outputs become spendable after 100 confirmations like on regtest.
type fakeBitcoind struct {
	sync.Mutex

	height      int64
	addrCounter uint32
	minedTo     []string
	sent        []string
	calls       map[string]int
	authHeader  string
	failMethod  string
}

func newFakeBitcoind(t *testing.T) (*fakeBitcoind, *httptest.Server) {
	t.Helper()
	f := &fakeBitcoind{calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

// urlWithAuth returns the server url with credentials embedded.
func urlWithAuth(srv *httptest.Server) string {
	return strings.Replace(srv.URL, "http://", "http://polaruser:polarpass@", 1)
}

func (f *fakeBitcoind) balance() btcutil.Amount {
	mature := f.height - 100
	if mature < 0 {
		mature = 0
	}
	spent := btcutil.Amount(0)
	for _, s := range f.sent {
		a, _ := ParseBTC(s)
		spent += a
	}
	return btcutil.Amount(mature)*50*btcutil.SatoshiPerBitcoin - spent
}

func (f *fakeBitcoind) newAddress() string {
	f.addrCounter++
	hash := make([]byte, 20)
	binary.BigEndian.PutUint32(hash, f.addrCounter)
	addr, _ := btcutil.NewAddressWitnessPubKeyHash(hash, &chaincfg.RegressionNetParams)
	return addr.EncodeAddress()
}

func (f *fakeBitcoind) callCount(method string) int {
	f.Lock()
	defer f.Unlock()
	return f.calls[method]
}

func (f *fakeBitcoind) serve(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()

	f.authHeader = r.Header.Get("Authorization")
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.calls[req.Method]++

	if req.Method == f.failMethod {
		writeRPC(w, http.StatusInternalServerError, req.ID, nil, &rpcError{Code: -28, Message: "Loading block index..."})
		return
	}

	switch req.Method {
	case "getblockcount":
		writeRPC(w, http.StatusOK, req.ID, f.height, nil)
	case "getbalance":
		writeRPC(w, http.StatusOK, req.ID, f.balance().ToBTC(), nil)
	case "getnewaddress":
		writeRPC(w, http.StatusOK, req.ID, f.newAddress(), nil)
	case "sendtoaddress":
		var amount json.Number
		_ = json.Unmarshal(req.Params[1], &amount)
		f.sent = append(f.sent, amount.String())
		writeRPC(w, http.StatusOK, req.ID, strings.Repeat("ab", 32), nil)
	case "generatetoaddress":
		var (
			n    int
			addr string
		)
		_ = json.Unmarshal(req.Params[0], &n)
		_ = json.Unmarshal(req.Params[1], &addr)
		hashes := make([]string, 0, n)
		for i := 0; i < n; i++ {
			f.height++
			f.minedTo = append(f.minedTo, addr)
			hashes = append(hashes, strings.Repeat("0", 63)+"1")
		}
		writeRPC(w, http.StatusOK, req.ID, hashes, nil)
	default:
		writeRPC(w, http.StatusNotFound, req.ID, nil, &rpcError{Code: -32601, Message: "Method not found"})
	}
}

func writeRPC(w http.ResponseWriter, status, id int, result interface{}, rerr *rpcError) {
	body := map[string]interface{}{"jsonrpc": "2.0", "id": id}
	if rerr != nil {
		body["error"] = rerr
	} else {
		body["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
