// Package regiontest builds region files in memory for tests.
//
// Documents are generated from an id so two calls with the same id produce
// identical bytes (and digests). Every document carries a long repeated
// string so its compressed form is always shorter than its source, which
// the segment header rules require.
package regiontest

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"go.mongodb.org/mongo-driver/bson"
)

// Layout constants mirrored from the reader so fixtures do not depend on
// the package under test.
const (
	Magic      = "HytaleIndexedStorage"
	HeaderSize = 32
)

var encoder *zstd.Encoder

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic("regiontest: zstd encoder initialization failed: " + err.Error())
	}
}

// Doc returns a chunk document for id. noise adds that many pseudo-random
// bytes, which survive compression and so grow the segment on disk.
func Doc(id, noise int) []byte {
	rng := rand.New(rand.NewPCG(uint64(id), 7))
	junk := make([]byte, noise)
	for i := range junk {
		junk[i] = byte(rng.Uint32())
	}
	data, err := bson.Marshal(bson.D{
		{Key: "Components", Value: bson.D{
			{Key: "Id", Value: int32(id)},
			{Key: "Name", Value: fmt.Sprintf("chunk-%d", id)},
		}},
		{Key: "Blocks", Value: strings.Repeat("stone.", 64)},
		{Key: "Noise", Value: junk},
	})
	if err != nil {
		panic(fmt.Sprintf("regiontest: marshal doc %d: %v", id, err))
	}
	return data
}

// Compress zstd-compresses data.
func Compress(data []byte) []byte {
	return encoder.EncodeAll(data, nil)
}

// Header returns an 8-byte segment header.
func Header(source, compressed uint32) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], source)
	binary.BigEndian.PutUint32(b[4:8], compressed)
	return b
}

// Segment returns the on-disk form of doc: header plus compressed payload.
func Segment(doc []byte) []byte {
	c := Compress(doc)
	return append(Header(uint32(len(doc)), uint32(len(c))), c...)
}

// Chunk is shorthand for Segment(Doc(id, noise)).
func Chunk(id, noise int) []byte {
	return Segment(Doc(id, noise))
}

type write struct {
	index uint32
	data  []byte
}

// File describes a region file. The data area is always a whole number of
// pages; slice the result of Bytes to model truncation.
type File struct {
	Version     uint32
	SegmentSize uint32
	Index       []uint32
	Pages       int // Minimum number of data pages
	writes      []write
}

// New returns an empty file with blobCount slots.
func New(blobCount int, segmentSize uint32) *File {
	return &File{
		Version:     1,
		SegmentSize: segmentSize,
		Index:       make([]uint32, blobCount),
	}
}

// Base returns the offset of the first page.
func (f *File) Base() int {
	return HeaderSize + 4*len(f.Index)
}

// Offset returns the offset of page index (1-based).
func (f *File) Offset(index uint32) int {
	return f.Base() + int(index-1)*int(f.SegmentSize)
}

// Put points slot at index and writes data there.
func (f *File) Put(slot int, index uint32, data []byte) *File {
	f.Index[slot] = index
	return f.Write(index, data)
}

// Write places data at the start of page index without touching the index
// table. Later writes overwrite earlier ones.
func (f *File) Write(index uint32, data []byte) *File {
	f.writes = append(f.writes, write{index: index, data: data})
	return f
}

// Fill writes a page of b at index.
func (f *File) Fill(index uint32, b byte) *File {
	return f.Write(index, []byte(strings.Repeat(string([]byte{b}), int(f.SegmentSize))))
}

// Len returns the length Bytes will produce.
func (f *File) Len() int {
	end := f.Base() + f.Pages*int(f.SegmentSize)
	for _, w := range f.writes {
		end = max(end, f.Offset(w.index)+len(w.data))
	}
	ss := int(f.SegmentSize)
	if rest := (end - f.Base()) % ss; rest != 0 {
		end += ss - rest
	}
	return end
}

// Bytes encodes the file.
func (f *File) Bytes() []byte {
	buf := make([]byte, f.Len())
	copy(buf, Magic)
	binary.BigEndian.PutUint32(buf[20:], f.Version)
	binary.BigEndian.PutUint32(buf[24:], uint32(len(f.Index)))
	binary.BigEndian.PutUint32(buf[28:], f.SegmentSize)
	for i, idx := range f.Index {
		binary.BigEndian.PutUint32(buf[HeaderSize+4*i:], idx)
	}
	for _, w := range f.writes {
		copy(buf[f.Offset(w.index):], w.data)
	}
	return buf
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
