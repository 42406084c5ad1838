package main

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/cicache"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/electrum"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/lightning"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"github.com/urfave/cli"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var (
	readyAttemptsFlag = cli.Uint64Flag{
		Name:  "ready_attempts",
		Value: 10,
		Usage: "electrum connect attempts before giving up",
	}
	testNameFlag = cli.StringFlag{
		Name:     "name",
		Usage:    "full test name",
		Required: true,
	}
	nodeFlag = cli.StringFlag{
		Name:     "node",
		Usage:    "hex node id of the peer",
		Required: true,
	}
	hostFlag = cli.StringFlag{
		Name:     "host",
		Usage:    "host:port of the peer",
		Required: true,
	}
	retriesFlag = cli.IntFlag{
		Name:  "retries",
		Value: lightning.DefaultMaxRetries,
		Usage: "polling attempts",
	}
	memoFlag = cli.StringFlag{
		Name: "memo",
	}
	pushAmountFlag = cli.Int64Flag{
		Name:  "push_amt",
		Usage: "sats pushed to the peer on open",
	}
	privateFlag = cli.BoolFlag{
		Name:  "private",
		Usage: "open an unannounced channel",
	}

	waitSyncCommand = cli.Command{
		Name:   "waitsync",
		Usage:  "wait until electrum has indexed the node tip",
		Flags:  []cli.Flag{readyAttemptsFlag},
		Action: waitSync,
	}

	ciCommand = cli.Command{
		Name:  "ci",
		Usage: "inspect the CI completion markers",
		Subcommands: []cli.Command{
			{
				Name:   "status",
				Usage:  "print whether a test already passed in this CI job",
				Flags:  []cli.Flag{testNameFlag},
				Action: ciStatus,
			},
			{
				Name:   "mark",
				Usage:  "mark a test as passed",
				Flags:  []cli.Flag{testNameFlag},
				Action: ciMark,
			},
		},
	}

	lnCommand = cli.Command{
		Name:  "ln",
		Usage: "drive the counterparty lnd node",
		Subcommands: []cli.Command{
			{
				Name:   "info",
				Action: lnInfo,
			},
			{
				Name:   "connect",
				Flags:  []cli.Flag{nodeFlag, hostFlag},
				Action: lnConnect,
			},
			{
				Name:   "waitpeer",
				Flags:  []cli.Flag{nodeFlag, retriesFlag},
				Action: lnWaitPeer,
			},
			{
				Name:   "waitchannel",
				Flags:  []cli.Flag{nodeFlag, retriesFlag},
				Action: lnWaitChannel,
			},
			{
				Name:   "openchannel",
				Flags:  []cli.Flag{nodeFlag, satAmountFlag, pushAmountFlag, privateFlag},
				Action: lnOpenChannel,
			},
			{
				Name:   "invoice",
				Flags:  []cli.Flag{satAmountFlag, memoFlag},
				Action: lnInvoice,
			},
			{
				Name:   "pay",
				Flags:  []cli.Flag{invoiceFlag, satAmountFlag},
				Action: lnPay,
			},
			{
				Name:   "fund",
				Flags:  []cli.Flag{satAmountFlag},
				Action: lnFund,
			},
		},
	}
)

func waitSync(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, e *env, r *regtest.Regtest) error {
		if !r.Backend().IsRemote() {
			err := electrum.WaitReady(c, nil, e.cfg.ElectrumEndpoint(), e.cfg.UseElectrumTLS(), ctx.Uint64(readyAttemptsFlag.Name))
			if err != nil {
				return err
			}
		}
		m, err := electrum.Start(c, electrum.Options{
			Backend:     r.Backend(),
			Endpoint:    e.cfg.ElectrumEndpoint(),
			TLS:         e.cfg.UseElectrumTLS(),
			Node:        r,
			RemoteDelay: e.cfg.RemoteSyncDelay,
		})
		if err != nil {
			return err
		}
		defer m.Stop()
		if err := m.WaitForSync(c, e.cfg.Timeout()); err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, m.Height())
		return nil
	})
}

func ciStatus(ctx *cli.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	cache := cicache.FromConfig(e.cfg)
	name := ctx.String(testNameFlag.Name)
	if cache.IsComplete(name) {
		fmt.Fprintln(ctx.App.Writer, "complete")
		return nil
	}
	fmt.Fprintln(ctx.App.Writer, "pending")
	return nil
}

func ciMark(ctx *cli.Context) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	cache := cicache.FromConfig(e.cfg)
	if !cache.Enabled() {
		return fmt.Errorf("CI is not set, markers are not written")
	}
	return cache.MarkComplete(ctx.String(testNameFlag.Name))
}

func withLightning(ctx *cli.Context, fn func(context.Context, *lightning.Coordinator) error) error {
	return withRegtest(ctx, func(c context.Context, e *env, r *regtest.Regtest) error {
		ln, err := lightning.Connect(c, e.cfg, r)
		if err != nil {
			return err
		}
		defer ln.Close()
		return fn(c, ln)
	})
}

func printRespJSON(ctx *cli.Context, resp proto.Message) {
	b, err := protojson.MarshalOptions{
		UseProtoNames:   true,
		EmitUnpopulated: true,
		Indent:          "    ",
	}.Marshal(resp)
	if err != nil {
		fmt.Fprintln(ctx.App.Writer, "unable to decode response: ", err)
		return
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
}

func lnInfo(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		info, err := ln.Info(c)
		if err != nil {
			return err
		}
		printRespJSON(ctx, info)
		return nil
	})
}

func lnConnect(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		return ln.ConnectPeer(c, ctx.String(nodeFlag.Name), ctx.String(hostFlag.Name))
	})
}

func lnWaitPeer(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		peer, err := ln.WaitForPeerConnection(c, ctx.String(nodeFlag.Name), ctx.Int(retriesFlag.Name))
		if err != nil {
			return err
		}
		printRespJSON(ctx, peer)
		return nil
	})
}

func lnWaitChannel(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		ch, err := ln.WaitForActiveChannel(c, ctx.String(nodeFlag.Name), ctx.Int(retriesFlag.Name))
		if err != nil {
			return err
		}
		printRespJSON(ctx, ch)
		return nil
	})
}

func lnOpenChannel(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		point, err := ln.OpenChannel(c, ctx.String(nodeFlag.Name), btcutil.Amount(ctx.Int64(satAmountFlag.Name)), lightning.ChannelOptions{
			PushAmount: btcutil.Amount(ctx.Int64(pushAmountFlag.Name)),
			Private:    ctx.Bool(privateFlag.Name),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, point)
		return nil
	})
}

func lnInvoice(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		invoice, err := ln.AddInvoice(c, btcutil.Amount(ctx.Int64(satAmountFlag.Name)), ctx.String(memoFlag.Name))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, invoice)
		return nil
	})
}

func lnPay(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		p, err := ln.PayInvoice(c, ctx.String(invoiceFlag.Name), btcutil.Amount(ctx.Int64(satAmountFlag.Name)))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, p.Preimage)
		return nil
	})
}

func lnFund(ctx *cli.Context) error {
	return withLightning(ctx, func(c context.Context, ln *lightning.Coordinator) error {
		d, err := ln.FundWallet(c, btcutil.Amount(ctx.Int64(satAmountFlag.Name)))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, d)
		return nil
	})
}
