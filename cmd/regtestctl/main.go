package main

import (
	"context"
	"fmt"
	log2 "log"
	"os"
	"os/signal"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/version"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log2.Fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "regtestctl"
	app.Usage = "drive the regtest backend used by the wallet e2e suite"
	app.Version = version.GetVersion()
	app.Flags = []cli.Flag{
		cli.DurationFlag{
			Name:  "timeout",
			Value: 0,
			Usage: "overall command timeout, 0 uses the suite timeout",
		},
	}
	app.Commands = []cli.Command{
		backendCommand, addressCommand, heightCommand, depositCommand, sendCommand,
		mineCommand, payCommand, ensureFundsCommand, waitSyncCommand, ciCommand, lnCommand,
	}
	return app
}

var (
	addressFlag = cli.StringFlag{
		Name:     "address",
		Usage:    "regtest address",
		Required: true,
	}
	satAmountFlag = cli.Int64Flag{
		Name:  "sat_amt",
		Usage: "amount in sats, 0 uses the backend default",
	}
	btcAmountFlag = cli.StringFlag{
		Name:     "btc",
		Usage:    "amount in whole coins, e.g. 0.001",
		Required: true,
	}
	blocksFlag = cli.IntFlag{
		Name:  "blocks",
		Value: 1,
		Usage: "number of blocks",
	}
	invoiceFlag = cli.StringFlag{
		Name:     "invoice",
		Required: true,
	}

	backendCommand = cli.Command{
		Name:   "backend",
		Usage:  "print the selected backend",
		Action: printBackend,
	}
	addressCommand = cli.Command{
		Name:   "address",
		Usage:  "print an address that is not owned by the wallet under test",
		Action: externalAddress,
	}
	heightCommand = cli.Command{
		Name:   "height",
		Usage:  "print the node block count (local backend only)",
		Action: blockCount,
	}
	depositCommand = cli.Command{
		Name:   "deposit",
		Usage:  "send sats to an address",
		Flags:  []cli.Flag{addressFlag, satAmountFlag},
		Action: deposit,
	}
	sendCommand = cli.Command{
		Name:   "send",
		Usage:  "send whole coins to an address",
		Flags:  []cli.Flag{addressFlag, btcAmountFlag},
		Action: sendToAddress,
	}
	mineCommand = cli.Command{
		Name:   "mine",
		Usage:  "mine blocks",
		Flags:  []cli.Flag{blocksFlag},
		Action: mine,
	}
	payCommand = cli.Command{
		Name:   "pay",
		Usage:  "pay a lightning invoice through the hosted backend",
		Flags:  []cli.Flag{invoiceFlag, satAmountFlag},
		Action: payInvoice,
	}
	ensureFundsCommand = cli.Command{
		Name:   "ensurefunds",
		Usage:  "mine until the node wallet holds at least the given amount",
		Flags:  []cli.Flag{btcAmountFlag},
		Action: ensureFunds,
	}
)

type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	l, logger, err := log.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLogger(l)
	return &env{cfg: cfg, logger: logger}, nil
}

// commandContext is cancelled on interrupt and after the --timeout flag.
func (e *env) commandContext(ctx *cli.Context) (context.Context, context.CancelFunc) {
	timeout := ctx.GlobalDuration("timeout")
	if timeout <= 0 {
		timeout = e.cfg.Timeout()
	}
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	c, cancel := context.WithTimeout(c, timeout)
	return c, func() {
		cancel()
		stop()
	}
}

func withRegtest(ctx *cli.Context, fn func(context.Context, *env, *regtest.Regtest) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck
	r, err := regtest.Open(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer r.Close()

	c, cancel := e.commandContext(ctx)
	defer cancel()
	return fn(c, e, r)
}

func printBackend(ctx *cli.Context) error {
	b, err := config.GetBackend()
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, b)
	return nil
}

func externalAddress(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		addr, err := r.ExternalAddress(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, addr)
		return nil
	})
}

func blockCount(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		h, err := r.BlockCount(c)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, h)
		return nil
	})
}

func deposit(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		d, err := r.Deposit(c, ctx.String(addressFlag.Name), btcutil.Amount(ctx.Int64(satAmountFlag.Name)))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, d.TxID)
		return nil
	})
}

func sendToAddress(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		d, err := r.SendToAddress(c, ctx.String(addressFlag.Name), ctx.String(btcAmountFlag.Name))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, d.TxID)
		return nil
	})
}

func mine(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		return r.MineBlocks(c, ctx.Int(blocksFlag.Name))
	})
}

func payInvoice(ctx *cli.Context) error {
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		id, err := r.PayInvoice(c, ctx.String(invoiceFlag.Name), btcutil.Amount(ctx.Int64(satAmountFlag.Name)))
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, id)
		return nil
	})
}

func ensureFunds(ctx *cli.Context) error {
	minimum, err := regtest.ParseBTC(ctx.String(btcAmountFlag.Name))
	if err != nil {
		return err
	}
	return withRegtest(ctx, func(c context.Context, _ *env, r *regtest.Regtest) error {
		start := time.Now()
		if err := r.EnsureFunds(c, minimum); err != nil {
			return err
		}
		log.Infof("funds available after %v", time.Since(start))
		return nil
	})
}
