package solver

import (
	"log"

	"github.com/dustin/go-humanize"
)

// LogProgress returns a progress callback for Build that logs the running
// node count at bracketed-tag intervals, in the style of the teacher's
// internal/engine/engine.go log.Printf("[Engine] ...") convention.
func LogProgress(n, m int) func(nodes int64) {
	return func(nodes int64) {
		log.Printf("[solver] N=%d M=%d nodes enumerated: %s", n, m, humanize.Comma(nodes))
	}
}
