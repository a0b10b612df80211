// Package ident generates prefixed, collision-resistant transaction IDs.
//
// IDs look like "PAY-28VLK09S4G1": a service prefix plus a base36 snowflake
// (timestamp, worker ID, sequence). Uniqueness holds across processes as long
// as worker IDs differ.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// epoch 2024-01-01 00:00:00 UTC
	epoch int64 = 1704067200000

	workerIDBits = 10
	sequenceBits = 12

	maxWorkerID = -1 ^ (-1 << workerIDBits) // 1023
	maxSequence = -1 ^ (-1 << sequenceBits) // 4095

	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

var ErrInvalidWorkerID = errors.New("worker ID must be between 0 and 1023")

// Generator is a concurrency-safe snowflake generator.
type Generator struct {
	mu       sync.Mutex
	workerID int64
	sequence int64
	lastTime int64
}

// New creates a generator for the given worker ID.
func New(workerID int64) (*Generator, error) {
	if workerID < 0 || workerID > maxWorkerID {
		return nil, ErrInvalidWorkerID
	}
	return &Generator{workerID: workerID}, nil
}

// NextID returns a new ID with the given prefix, e.g. NextID("PAY") -> "PAY-...".
// If the wall clock moved backwards it falls back to a random ID rather than
// blocking or failing the request.
func (g *Generator) NextID(prefix string) string {
	id, err := g.next()
	if err != nil {
		return prefix + "-" + randomSuffix()
	}
	return prefix + "-" + strings.ToUpper(strconv36(id))
}

func (g *Generator) next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()

	if now < g.lastTime {
		return 0, errors.New("clock moved backwards")
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// sequence exhausted within the millisecond, wait for the next one
			for now <= g.lastTime {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	id := ((now - epoch) << timestampShift) |
		(g.workerID << workerIDShift) |
		g.sequence

	return id, nil
}

func strconv36(id int64) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if id == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = digits[id%36]
		id /= 36
	}
	return string(buf[i:])
}

func randomSuffix() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv36(time.Now().UnixNano())
	}
	return strings.ToUpper(hex.EncodeToString(b[:]))
}
