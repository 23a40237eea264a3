package memory

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

// Ensure FileStore implements the interface.
var _ driven.IndexStore = (*FileStore)(nil)

// File layout, all integers little-endian:
//
//	magic "VIDX" | version u8 | dimensions u32 | count u32
//	per entry: id, source, content (length-prefixed), position u32,
//	           embedding dimensions*f32
//	sha256 of everything above
const (
	indexMagic   = "VIDX"
	indexVersion = 1
)

// FileStore persists a vector index to a single file.
// Saves go through a temp file and rename, so a crash mid-write leaves
// either the old index or none at all.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the storage location.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether a persisted index is present.
func (s *FileStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Save atomically persists the full index.
func (s *FileStore) Save(index driven.VectorIndex) error {
	payload, err := encodeIndex(index)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(payload)
	payload = append(payload, sum[:]...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace index file: %w", err)
	}

	logger.Debug("Saved index with %d entries to %s", index.Len(), s.path)
	return nil
}

// Load reads the persisted index, verifies its checksum, and checks the
// stored dimension against expectDimensions.
func (s *FileStore) Load(expectDimensions int) (driven.VectorIndex, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read index file: %w", err)
	}

	if len(data) < sha256.Size {
		return nil, fmt.Errorf("%w: file too short", domain.ErrIndexCorrupt)
	}

	payload := data[:len(data)-sha256.Size]
	stored := data[len(data)-sha256.Size:]
	sum := sha256.Sum256(payload)
	if !bytes.Equal(sum[:], stored) {
		return nil, fmt.Errorf("%w: checksum mismatch", domain.ErrIndexCorrupt)
	}

	index, err := decodeIndex(payload, expectDimensions)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded index with %d entries from %s", index.Len(), s.path)
	return index, nil
}

// encodeIndex serialises an index without the trailing checksum.
func encodeIndex(index driven.VectorIndex) ([]byte, error) {
	entries := index.Entries()

	var buf bytes.Buffer
	buf.WriteString(indexMagic)
	buf.WriteByte(indexVersion)
	writeUint32(&buf, uint32(index.Dimensions()))
	writeUint32(&buf, uint32(len(entries)))

	for _, c := range entries {
		writeString(&buf, c.ID)
		writeString(&buf, c.Source)
		writeString(&buf, c.Content)
		writeUint32(&buf, uint32(c.Position))

		if len(c.Embedding) != index.Dimensions() {
			return nil, fmt.Errorf("%w: chunk %s", domain.ErrDimensionMismatch, c.ID)
		}
		for _, v := range c.Embedding {
			writeUint32(&buf, math.Float32bits(v))
		}
	}

	return buf.Bytes(), nil
}

// decodeIndex parses a checksum-verified payload.
func decodeIndex(payload []byte, expectDimensions int) (*Index, error) {
	r := &reader{data: payload}

	magic := r.bytes(len(indexMagic))
	if string(magic) != indexMagic {
		return nil, fmt.Errorf("%w: bad magic", domain.ErrIndexCorrupt)
	}
	if version := r.byte(); version != indexVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrIndexCorrupt, version)
	}

	dimensions := int(r.uint32())
	count := int(r.uint32())
	if r.failed {
		return nil, fmt.Errorf("%w: truncated header", domain.ErrIndexCorrupt)
	}

	if dimensions != expectDimensions {
		return nil, fmt.Errorf("%w: index has %d dimensions, expected %d",
			domain.ErrDimensionMismatch, dimensions, expectDimensions)
	}

	index, err := NewIndex(dimensions)
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, count)
	for i := 0; i < count; i++ {
		c := domain.Chunk{
			ID:      r.string(),
			Source:  r.string(),
			Content: r.string(),
		}
		c.Position = int(r.uint32())

		c.Embedding = make([]float32, dimensions)
		for d := 0; d < dimensions; d++ {
			c.Embedding[d] = math.Float32frombits(r.uint32())
		}

		if r.failed {
			return nil, fmt.Errorf("%w: truncated entry %d", domain.ErrIndexCorrupt, i)
		}
		chunks = append(chunks, c)
	}

	if !r.done() {
		return nil, fmt.Errorf("%w: trailing data", domain.ErrIndexCorrupt)
	}

	if err := index.Add(chunks); err != nil {
		return nil, err
	}
	return index, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

// reader is a cursor over the payload that records overruns instead of
// panicking.
type reader struct {
	data   []byte
	offset int
	failed bool
}

func (r *reader) bytes(n int) []byte {
	if r.failed || r.offset+n > len(r.data) {
		r.failed = true
		return nil
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b
}

func (r *reader) byte() byte {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) string() string {
	n := int(r.uint32())
	return string(r.bytes(n))
}

func (r *reader) done() bool {
	return !r.failed && r.offset == len(r.data)
}
