// Command beacon-engine is a thin operational harness for the state
// transition engine: it loads a genesis state and a directory of signed
// blocks from disk and drives them through the engine in order. It does not
// gossip, sync, or make fork-choice decisions -- those remain out of scope.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	jaeger "contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/trace"
	"net/http"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/core/transition"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

var log = logrus.WithField("prefix", "beacon-engine")

func main() {
	app := &cli.App{
		Name:  "beacon-engine",
		Usage: "drive a genesis state through a directory of signed blocks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "genesis", Required: true, Usage: "path to a JSON-encoded genesis BeaconState"},
			&cli.StringFlag{Name: "blocks-dir", Required: true, Usage: "directory of JSON-encoded SignedBeaconBlock files, applied in lexical filename order"},
			&cli.StringFlag{Name: "verbosity", Value: "info", Usage: "log level (trace, debug, info, warn, error)"},
			&cli.StringFlag{Name: "metrics-addr", Value: "", Usage: "if set, serve Prometheus metrics on this address (e.g. :9090)"},
			&cli.StringFlag{Name: "jaeger-endpoint", Value: "", Usage: "if set, export trace spans to this Jaeger collector endpoint"},
			&cli.BoolFlag{Name: "no-verify", Value: false, Usage: "skip block signature and post-state-root verification"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("beacon-engine exited with an error")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("verbosity"))
	if err != nil {
		return errors.Wrap(err, "invalid verbosity")
	}
	logrus.SetLevel(level)

	if endpoint := c.String("jaeger-endpoint"); endpoint != "" {
		exporter, err := jaeger.NewExporter(jaeger.Options{
			CollectorEndpoint: endpoint,
			ServiceName:       "beacon-engine",
		})
		if err != nil {
			return errors.Wrap(err, "could not create jaeger exporter")
		}
		trace.RegisterExporter(exporter)
		defer exporter.Flush()
	}
	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.WithError(err).Warn("metrics server stopped")
			}
		}()
		log.WithField("addr", addr).Info("serving prometheus metrics")
	}

	rawState, err := loadGenesisState(c.String("genesis"))
	if err != nil {
		return errors.Wrap(err, "could not load genesis state")
	}
	st := state.New(rawState)

	ec, err := epochctx.New(st)
	if err != nil {
		return errors.Wrap(err, "could not build epoch context")
	}

	blockPaths, err := sortedBlockPaths(c.String("blocks-dir"))
	if err != nil {
		return errors.Wrap(err, "could not list block files")
	}

	goCtx := context.Background()
	validate := !c.Bool("no-verify")
	for _, path := range blockPaths {
		signedBlock, err := loadSignedBlock(path)
		if err != nil {
			return errors.Wrapf(err, "could not load block %s", path)
		}
		if err := transition.StateTransition(goCtx, ec, st, signedBlock, validate); err != nil {
			return errors.Wrapf(err, "state transition failed applying block %s", path)
		}
		log.WithFields(logrus.Fields{
			"file": filepath.Base(path),
			"slot": signedBlock.Block.Slot,
		}).Info("applied block")
	}

	root, err := st.BeaconState.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute final state root")
	}
	fmt.Printf("final state root: %x\n", root)
	return nil
}

// loadGenesisState reads and JSON-decodes the genesis state file. The exact
// genesis-state file format is explicitly out of scope for this engine (it
// is a harness convenience, not a consensus-critical encoding); the
// engine's actual hash-tree-root and signing-root computations always go
// through the real SSZ Hasher in encoding/ssz, regardless of how a state was
// loaded into memory.
func loadGenesisState(path string) (*types.BeaconState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var raw types.BeaconState
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "could not decode genesis state")
	}
	return &raw, nil
}

// loadSignedBlock reads and JSON-decodes one signed block file, under the
// same harness-format caveat as loadGenesisState.
func loadSignedBlock(path string) (*types.SignedBeaconBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var sb types.SignedBeaconBlock
	if err := json.NewDecoder(f).Decode(&sb); err != nil {
		return nil, errors.Wrap(err, "could not decode signed block")
	}
	return &sb, nil
}

// sortedBlockPaths lists dir's files in lexical order, the harness's stand-in
// for "apply blocks in slot order" (real deployments resolve this via
// fork-choice, an explicit non-goal here).
func sortedBlockPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
