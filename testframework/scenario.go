package testframework

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/driver"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
)

// Element ids of the wallet screens the helpers below read from.
const (
	ReceiveAddressID  = "QRCode-onchain-address"
	ReceiveInvoiceID  = "QRCode-lightning-invoice"
	ReceivedToastID   = "ReceivedTransaction"
	PaymentSuccessID  = "PaymentSuccess"
	ActivityRefreshID = "ActivityList"
)

// ReceiveOnchain funds the address shown on the app's receive screen, mines a
// block and waits until electrum and then the app report the transaction.
func (h *Harness) ReceiveOnchain(ctx context.Context, d driver.Driver, amount btcutil.Amount) (*regtest.Deposit, error) {
	addr, err := d.Text(ctx, ReceiveAddressID)
	if err != nil {
		return nil, fmt.Errorf("read receive address: %w", err)
	}
	decoded, err := btcutil.DecodeAddress(addr, &chaincfg.RegressionNetParams)
	if err != nil {
		return nil, fmt.Errorf("app shows invalid address %q: %w", addr, err)
	}
	// DecodeAddress accepts any known bech32 hrp.
	if !decoded.IsForNet(&chaincfg.RegressionNetParams) {
		return nil, fmt.Errorf("app shows non regtest address %q", addr)
	}
	chain, err := h.Regtest()
	if err != nil {
		return nil, err
	}
	deposit, err := chain.Deposit(ctx, addr, amount)
	if err != nil {
		return nil, err
	}
	if err := h.MineAndSync(ctx, 1); err != nil {
		return deposit, err
	}
	if err := d.Swipe(ctx, ActivityRefreshID, driver.Down); err != nil {
		return deposit, err
	}
	return deposit, d.WaitForElement(ctx, ReceivedToastID, TIMEOUT)
}

// PayAppInvoice pays the invoice shown by the app. The hosted backend pays it
// through its own node, locally the counterparty lnd node does.
func (h *Harness) PayAppInvoice(ctx context.Context, d driver.Driver, amount btcutil.Amount) (string, error) {
	invoice, err := d.Text(ctx, ReceiveInvoiceID)
	if err != nil {
		return "", fmt.Errorf("read invoice: %w", err)
	}
	chain, err := h.Regtest()
	if err != nil {
		return "", err
	}

	var id string
	if chain.Backend().IsRemote() {
		id, err = chain.PayInvoice(ctx, invoice, amount)
		if err != nil {
			return "", err
		}
	} else {
		ln, err := h.Lightning(ctx)
		if err != nil {
			return "", err
		}
		decoded, err := ln.DecodeInvoice(ctx, invoice)
		if err != nil {
			return "", err
		}
		payment, err := ln.PayInvoice(ctx, invoice, amount)
		if err != nil {
			return "", err
		}
		if payment.Hash != decoded.PaymentHash {
			return "", fmt.Errorf("paid hash %s, app invoice has %s", payment.Hash, decoded.PaymentHash)
		}
		id = payment.Hash.String()
	}
	return id, d.WaitForElement(ctx, PaymentSuccessID, TIMEOUT)
}
