package oracle

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/hailam/fadingrow/internal/solver"
)

// WriteFile serializes a solved graph to path in the format of §6.3: an
// 8-byte record count followed by fixed-width records sorted ascending by
// key. The file is built under a temporary name and promoted into place with
// os.Rename, the same promote-by-rename idiom the teacher uses for completed
// tablebase downloads (internal/tablebase/download.go) — a reader never
// observes a partially written table.
func WriteFile(path string, g *solver.Graph) error {
	records := make([]Record, g.NodeCount())
	for i := range g.Keys {
		records[i] = Record{
			Key:    g.Keys[i],
			ValX:   g.ValX[i],
			ValO:   g.ValO[i],
			DepthX: g.DepthX[i],
			DepthO: g.DepthO[i],
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Key < records[j].Key })

	tmpPath := path + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("oracle: create %s: %w", tmpPath, err)
	}

	if err := writeRecords(out, records); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("oracle: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("oracle: rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

func writeRecords(out *os.File, records []Record) error {
	var header [headerSize]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(records)))
	if _, err := out.Write(header[:]); err != nil {
		return fmt.Errorf("oracle: write header: %w", err)
	}

	const batch = 4096
	buf := make([]byte, 0, batch*recordSize)
	for i, r := range records {
		var rec [recordSize]byte
		marshalRecord(rec[:], r)
		buf = append(buf, rec[:]...)
		if len(buf) >= cap(buf) || i == len(records)-1 {
			if _, err := out.Write(buf); err != nil {
				return fmt.Errorf("oracle: write records: %w", err)
			}
			buf = buf[:0]
		}
	}
	return nil
}
