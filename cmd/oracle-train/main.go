// Command oracle-train enumerates every canonical state for an N×N,
// per-player-cap-M fading-row configuration, solves it by retrograde
// backward induction, and writes the result to a bit-exact binary table
// ready for oracle-play to memory-map.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/hailam/fadingrow/internal/ledger"
	"github.com/hailam/fadingrow/internal/oracle"
	"github.com/hailam/fadingrow/internal/solver"
)

var (
	n             = flag.Int("n", 3, "board side length")
	m             = flag.Int("m", 3, "per-player stone cap / win length")
	out           = flag.String("out", "", "output table path (default oracle_NxN_mM.bin)")
	expectedCount = flag.Int64("expected-count", 0, "calibration constant: stop enumerating once this many canonical nodes are found (0 = exhaust the key space)")
	ledgerDir     = flag.String("ledger", "./oracle-ledger", "directory for the training progress ledger")
	cpuprofile    = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	outPath := *out
	if outPath == "" {
		outPath = defaultTablePath(*n, *m)
	}

	started := time.Now()
	log.Printf("[oracle-train] building N=%d M=%d -> %s", *n, *m, outPath)

	g, err := solver.Build(*n, *m, *expectedCount, solver.LogProgress(*n, *m))
	if err != nil {
		log.Fatalf("[oracle-train] build: %v", err)
	}
	log.Printf("[oracle-train] enumerated %d nodes, solving", g.NodeCount())

	g.Solve(context.Background())
	log.Printf("[oracle-train] solved, writing table")

	if err := oracle.WriteFile(outPath, g); err != nil {
		log.Fatalf("[oracle-train] write: %v", err)
	}

	duration := time.Since(started)
	log.Printf("[oracle-train] wrote %s in %s", outPath, duration)

	if err := recordLedgerEntry(*ledgerDir, *n, *m, *expectedCount, int64(g.NodeCount()), outPath, duration); err != nil {
		log.Printf("[oracle-train] warning: ledger not updated: %v", err)
	}
}

func defaultTablePath(n, m int) string {
	return "oracle_" + strconv.Itoa(n) + "x" + strconv.Itoa(n) + "_m" + strconv.Itoa(m) + ".bin"
}

func recordLedgerEntry(dir string, n, m int, expectedCount, nodeCount int64, path string, duration time.Duration) error {
	l, err := ledger.Open(dir)
	if err != nil {
		return err
	}
	defer l.Close()

	table, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(table)

	return l.Put(ledger.TrainingRecord{
		N:             n,
		M:             m,
		ExpectedCount: expectedCount,
		NodeCount:     nodeCount,
		TablePath:     path,
		Checksum:      hex.EncodeToString(digest[:]),
		BuildDuration: duration,
		CompletedAt:   time.Now(),
	})
}
