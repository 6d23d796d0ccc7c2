package oracle

import "errors"

// ErrFileFormat is returned when an oracle file's header or size does not
// match the format in the file layout this package reads and writes.
var ErrFileFormat = errors.New("oracle: malformed training file")

// ErrNoMoves is returned by MakeMove when the position has no legal move
// (no empty cell is left, or the last move already completed a line).
var ErrNoMoves = errors.New("oracle: no legal move from this position")
