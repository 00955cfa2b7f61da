package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-arb-scan/batch"
	"github.com/franco-bianco/solana-arb-scan/poolcache"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	var (
		startSlot    = flag.Uint64("start", 0, "first slot of the range")
		endSlot      = flag.Uint64("end", 0, "last slot of the range (inclusive)")
		rpcURL       = flag.String("rpc", os.Getenv("RPC_URL"), "solana RPC endpoint")
		outputDir    = flag.String("out", "data", "output directory")
		saveInterval = flag.Int("save-interval", 10, "slots between progress checkpoints")
	)
	flag.Parse()

	if *rpcURL == "" {
		log.Fatal("RPC endpoint required (flag -rpc or env RPC_URL)")
	}
	if *startSlot == 0 || *endSlot < *startSlot {
		log.Fatalf("invalid slot range %d-%d", *startSlot, *endSlot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rpc.New(*rpcURL)
	cache := poolcache.New(*outputDir, log)
	analyzer := batch.NewAnalyzer(cache, log)
	fetcher := batch.NewRPCFetcher(client, log)

	runner, err := batch.NewBatchAnalyzer(batch.Config{
		StartSlot:    *startSlot,
		EndSlot:      *endSlot,
		OutputDir:    *outputDir,
		SaveInterval: *saveInterval,
	}, fetcher, analyzer, log)
	if err != nil {
		log.Fatalf("failed to configure batch analyzer: %v", err)
	}

	path, result, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("interrupted, progress saved")
			return
		}
		log.Fatalf("batch analysis failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"file":      path,
		"blocks":    result.Metadata.TotalBlocks,
		"txs":       result.Metadata.TotalTransactions,
		"arbitrage": result.Metadata.ArbitrageTransactions,
	}).Info("analysis written")
	for token, profit := range result.Statistics.TotalProfit {
		log.Infof("total profit in %s: %s", token, profit)
	}
}
