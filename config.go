// Copyright (c) 2026 The mempoold developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"

	"github.com/txgate-labs/mempoold/mempool"
)

const (
	defaultLogFilename  = "mempoold.log"
	defaultDebugLevel   = "info"
	defaultPollInterval = time.Second
)

var (
	defaultHomeDir = btcutil.AppDataDir("mempoold", false)
	defaultLogDir  = filepath.Join(defaultHomeDir, "logs")
)

// config defines the configuration options for mempoold.
//
// See loadConfig for details on the configuration load process.
type config struct {
	RPCConnect         string        `long:"rpcconnect" description:"Host:port of the btcd/bitcoind RPC server to track"`
	RPCUser            string        `long:"rpcuser" description:"RPC username"`
	RPCPass            string        `long:"rpcpass" default-mask:"-" description:"RPC password"`
	NoTLS              bool          `long:"notls" description:"Disable TLS for the RPC connection"`
	CostLimit          int64         `long:"costlimit" description:"Maximum aggregate cost of verified mempool transactions"`
	RejectionCacheSize uint          `long:"rejectioncachesize" description:"Capacity of the permanent rejection cache"`
	PollInterval       time.Duration `long:"pollinterval" description:"How often to poll the RPC server for tip and mempool changes"`
	DebugLevel         string        `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	LogDir             string        `long:"logdir" description:"Directory to log output"`
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg := config{
		RPCConnect:         "localhost:8334",
		CostLimit:          mempool.DefaultMaxTotalCost,
		RejectionCacheSize: mempool.DefaultRejectionCacheLimit,
		PollInterval:       defaultPollInterval,
		DebugLevel:         defaultDebugLevel,
		LogDir:             defaultLogDir,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	if cfg.RPCUser == "" || cfg.RPCPass == "" {
		return nil, fmt.Errorf("both --rpcuser and --rpcpass are " +
			"required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("--pollinterval must be positive")
	}
	if !validLogLevel(cfg.DebugLevel) {
		return nil, fmt.Errorf("unknown debug level %q", cfg.DebugLevel)
	}

	return &cfg, nil
}
