// Package oracle persists a solved game graph (internal/solver) as a sorted
// fixed-width binary file and serves it back at play time via memory map and
// binary search, the same "build once offline, serve many times lock-free"
// split the teacher uses for Syzygy tablebases (internal/tablebase) — except
// the table here is self-built rather than downloaded.
package oracle

import "encoding/binary"

// recordSize is the on-disk width of one Record: 8-byte key, 1-byte v_X,
// 1-byte v_O, 2-byte depth_X, 2-byte depth_O, all little-endian.
const recordSize = 14

// headerSize is the width of the leading num_records field.
const headerSize = 8

// Record is one labelled canonical state, as produced by internal/solver and
// consumed at play time. ValX/ValO and DepthX/DepthO carry the same meaning
// as the solver's Graph.ValX/ValO and DepthX/DepthO for the matching node:
// the value is absolute (+1 always means X wins, -1 always means O wins,
// regardless of which side is actually to move at this node), so a caller
// choosing a move must pick the comparison direction itself (see MakeMove).
type Record struct {
	Key    uint64
	ValX   int8
	ValO   int8
	DepthX uint16
	DepthO uint16
}

// marshalRecord encodes r into a recordSize-byte buffer at the given offset
// in buf.
func marshalRecord(buf []byte, r Record) {
	binary.LittleEndian.PutUint64(buf[0:8], r.Key)
	buf[8] = byte(r.ValX)
	buf[9] = byte(r.ValO)
	binary.LittleEndian.PutUint16(buf[10:12], r.DepthX)
	binary.LittleEndian.PutUint16(buf[12:14], r.DepthO)
}

// unmarshalRecord decodes a recordSize-byte slice into a Record.
func unmarshalRecord(buf []byte) Record {
	return Record{
		Key:    binary.LittleEndian.Uint64(buf[0:8]),
		ValX:   int8(buf[8]),
		ValO:   int8(buf[9]),
		DepthX: binary.LittleEndian.Uint16(buf[10:12]),
		DepthO: binary.LittleEndian.Uint16(buf[12:14]),
	}
}
