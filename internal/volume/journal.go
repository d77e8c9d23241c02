package volume

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Journal records are fixed width: three int32 coordinates followed by
// four color bytes, little-endian.
const journalRecordSize = 16

// JournalStore persists voxels as an append-only record log. The full
// contents are replayed into memory on open, so reads never touch disk.
type JournalStore struct {
	mu     sync.RWMutex
	file   *os.File
	w      *bufio.Writer
	voxels map[Pos]RGBA
}

// OpenJournal opens or creates a journal file and replays its records.
// Later records for the same position win.
func OpenJournal(path string) (*JournalStore, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	s := &JournalStore{
		file:   f,
		voxels: make(map[Pos]RGBA),
	}
	if err := s.replay(); err != nil {
		f.Close()
		return nil, err
	}
	s.w = bufio.NewWriter(f)
	return s, nil
}

func (s *JournalStore) replay() error {
	r := bufio.NewReader(s.file)
	var rec [journalRecordSize]byte
	for {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("truncated journal record: %w", err)
			}
			return fmt.Errorf("read journal record: %w", err)
		}
		p := Pos{
			X: int(int32(binary.LittleEndian.Uint32(rec[0:4]))),
			Y: int(int32(binary.LittleEndian.Uint32(rec[4:8]))),
			Z: int(int32(binary.LittleEndian.Uint32(rec[8:12]))),
		}
		s.voxels[p] = RGBA{R: rec[12], G: rec[13], B: rec[14], A: rec[15]}
	}
}

// Write appends one record and updates the in-memory view. The record is
// buffered; call Flush or Close to force it to disk.
func (s *JournalStore) Write(p Pos, c RGBA) error {
	var rec [journalRecordSize]byte
	binary.LittleEndian.PutUint32(rec[0:4], uint32(p.X))
	binary.LittleEndian.PutUint32(rec[4:8], uint32(p.Y))
	binary.LittleEndian.PutUint32(rec[8:12], uint32(p.Z))
	rec[12], rec[13], rec[14], rec[15] = c.R, c.G, c.B, c.A

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(rec[:]); err != nil {
		return fmt.Errorf("append journal record: %w", err)
	}
	s.voxels[p] = c
	return nil
}

func (s *JournalStore) Read(p Pos) (RGBA, bool, error) {
	s.mu.RLock()
	c, ok := s.voxels[p]
	s.mu.RUnlock()
	return c, ok, nil
}

// ForEach visits populated positions inside r in ascending (x, y, z) order.
func (s *JournalStore) ForEach(r Region, fn func(p Pos, c RGBA) bool) error {
	s.mu.RLock()
	entries := make([]struct {
		p Pos
		c RGBA
	}, 0, len(s.voxels))
	for p, c := range s.voxels {
		if r.Contains(p) {
			entries = append(entries, struct {
				p Pos
				c RGBA
			}{p, c})
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].p, entries[j].p
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	for _, e := range entries {
		if !fn(e.p, e.c) {
			break
		}
	}
	return nil
}

// Len reports the number of populated positions.
func (s *JournalStore) Len() int {
	s.mu.RLock()
	n := len(s.voxels)
	s.mu.RUnlock()
	return n
}

// Flush forces buffered records to stable storage.
func (s *JournalStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *JournalStore) flushLocked() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

func (s *JournalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flushLocked(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
