// Command matfree estimates the trace, diagonal, log-determinant or extremal
// spectrum of a sparse matrix stored in Matrix Market coordinate format,
// using only matrix-vector products.
//
//	matfree -matrix A.mtx [-config matfree.yaml] [-quantity trace|diag|logdet|eigs|svd] [-v]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katalvlaran/matfree"
	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/internal/logging"
	"github.com/katalvlaran/matfree/operator"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "matfree:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("matfree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: matfree -matrix A.mtx [flags]")
		fs.PrintDefaults()
	}
	var (
		matrixPath = fs.String("matrix", "", "Matrix Market coordinate file (required).")
		configPath = fs.String("config", "", "YAML configuration file.")
		quantity   = fs.String("quantity", "trace", "One of trace, diag, logdet, eigs, svd.")
		verbose    = fs.Bool("v", false, "Log per-round diagnostics and the matvec count to stderr.")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *matrixPath == "" || fs.NArg() != 0 {
		fs.Usage()
		return errUsage
	}

	cfg := matfree.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = matfree.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewText(stderr, level)
	cfg.Logger = logger.Logger

	f, err := os.Open(*matrixPath)
	if err != nil {
		return err
	}
	defer f.Close()
	m, err := readMatrixMarket(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *matrixPath, err)
	}
	op, err := m.Operator(cfg.Symmetric)
	if err != nil {
		return err
	}
	logger.Info("matrix loaded", "path", *matrixPath, "rows", m.Rows, "cols", m.Cols,
		"entries", len(m.Entries), "symmetric", op.Symmetric())
	op, counter := operator.Counting(op)

	opts := []matfree.Option{matfree.WithConfig(cfg)}
	switch *quantity {
	case "trace":
		res, err := matfree.Trace(op, opts...)
		if err != nil {
			return err
		}
		printScalar(stdout, "trace", res)
	case "logdet":
		res, err := matfree.LogDet(op, opts...)
		if res == nil {
			return err
		}
		if err != nil {
			logger.Warn("logdet", "error", err)
		}
		printScalar(stdout, "logdet", res)
	case "diag":
		res, err := matfree.Diagonal(op, opts...)
		if err != nil {
			return err
		}
		for i, v := range res.Vector {
			fmt.Fprintf(stdout, "%d\t%.12g\n", i+1, v)
		}
	case "eigs":
		pair, err := matfree.Eigenvalues(op, opts...)
		if err != nil {
			return err
		}
		for i, v := range pair.Values {
			fmt.Fprintf(stdout, "%.12g\t%.3g\n", v, pair.Residuals[i])
		}
	case "svd":
		svd, err := matfree.SingularValues(op, opts...)
		if err != nil {
			return err
		}
		for _, v := range svd.Values {
			fmt.Fprintf(stdout, "%.12g\n", v)
		}
	default:
		fmt.Fprintf(stderr, "unknown quantity %q\n", *quantity)
		return errUsage
	}
	logger.LogMatvecs(context.Background(), counter.Forward.Load(), counter.Transpose.Load())

	return nil
}

func printScalar(w io.Writer, name string, res *estimate.Result) {
	fmt.Fprintf(w, "%s\t%.12g\t± %.3g\tprobes=%d\t%s\n",
		name, res.Value, res.StdErr, res.NumProbes, res.Termination)
}
