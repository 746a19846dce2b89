package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	blobExt           = ".audio"
	compressedBlobExt = ".audio.zst"
)

// Blob describes one payload written by DiskStore. It is plain data so it can
// be persisted inside a cache entry and resolved again after a restart.
type Blob struct {
	Key          string    `json:"key"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`          // Size on disk
	OriginalSize int64     `json:"original_size"` // Size before compression
	Compressed   bool      `json:"compressed"`
	Timestamp    time.Time `json:"timestamp"`
}

// DiskStore keeps binary payloads on disk with optional zstd compression.
// Files are named after the hashed key; the oldest files are evicted when
// the store grows past its capacity.
type DiskStore struct {
	basePath string
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu sync.Mutex
}

// NewDiskStore creates a disk store rooted at basePath. A compressionLevel of
// zero disables compression.
func NewDiskStore(basePath string, capacity int64, compressionLevel int) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("disk store path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	ds := &DiskStore{
		basePath: basePath,
		capacity: capacity,
	}

	if compressionLevel > 0 {
		var err error
		ds.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}

		ds.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
	}

	if err := ds.calculateSize(); err != nil {
		return nil, err
	}

	return ds, nil
}

// Put writes value under key and returns its blob descriptor.
func (ds *DiskStore) Put(key string, value []byte) (Blob, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	originalSize := int64(len(value))

	dataToWrite := value
	compressed := false
	if ds.encoder != nil && originalSize > 1024 { // Only compress if > 1KB
		compressedData := ds.encoder.EncodeAll(value, nil)
		// Only use compression if it actually reduces size
		if len(compressedData) < len(value) {
			dataToWrite = compressedData
			compressed = true
		}
	}

	diskSize := int64(len(dataToWrite))
	if ds.capacity > 0 && diskSize > ds.capacity {
		return Blob{}, ErrItemTooLarge
	}

	// Replace any previous payload for the key
	for _, p := range ds.pathsFor(key) {
		if info, err := os.Stat(p); err == nil {
			ds.size -= info.Size()
			_ = os.Remove(p)
		}
	}

	for ds.capacity > 0 && ds.size+diskSize > ds.capacity {
		if !ds.evictOldest() {
			break
		}
	}

	path := ds.generateFilePath(key, compressed)
	if err := writeFile(path, dataToWrite); err != nil {
		return Blob{}, fmt.Errorf("failed to write cache file: %w", err)
	}
	ds.size += diskSize

	return Blob{
		Key:          key,
		Path:         path,
		Size:         diskSize,
		OriginalSize: originalSize,
		Compressed:   compressed,
		Timestamp:    time.Now(),
	}, nil
}

// Read returns the decoded payload of blob.
func (ds *DiskStore) Read(blob Blob) ([]byte, error) {
	data, err := os.ReadFile(blob.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}
	if !blob.Compressed {
		return data, nil
	}
	if ds.decoder == nil {
		return nil, fmt.Errorf("%w: compressed blob with compression disabled", ErrCacheCorrupted)
	}
	decoded, err := ds.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return decoded, nil
}

// Open returns a reader over the decoded payload of blob.
func (ds *DiskStore) Open(blob Blob) (io.ReadCloser, error) {
	data, err := ds.Read(blob)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Exists reports whether the payload behind blob is still on disk.
func (ds *DiskStore) Exists(blob Blob) bool {
	if blob.Path == "" {
		return false
	}
	_, err := os.Stat(blob.Path)
	return err == nil
}

// Delete removes the payload stored under key.
func (ds *DiskStore) Delete(key string) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for _, p := range ds.pathsFor(key) {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
		ds.size -= info.Size()
	}
	return nil
}

// Clear removes every payload.
func (ds *DiskStore) Clear() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	files, err := ds.listFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
	}
	ds.size = 0
	return nil
}

// Size returns the current store size in bytes.
func (ds *DiskStore) Size() int64 {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.size
}

// Path returns the directory the store writes to.
func (ds *DiskStore) Path() string {
	return ds.basePath
}

// Close releases the compression resources.
func (ds *DiskStore) Close() error {
	if ds.encoder != nil {
		if err := ds.encoder.Close(); err != nil {
			return err
		}
	}
	if ds.decoder != nil {
		ds.decoder.Close()
	}
	return nil
}

type diskFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (ds *DiskStore) listFiles() ([]diskFile, error) {
	entries, err := os.ReadDir(ds.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]diskFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), blobExt) && !strings.HasSuffix(e.Name(), compressedBlobExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, diskFile{
			path:    filepath.Join(ds.basePath, e.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

func (ds *DiskStore) calculateSize() error {
	files, err := ds.listFiles()
	if err != nil {
		return err
	}
	ds.size = 0
	for _, f := range files {
		ds.size += f.size
	}
	return nil
}

// evictOldest removes the least recently written file (must be called with
// lock held). It reports whether anything was removed.
func (ds *DiskStore) evictOldest() bool {
	files, err := ds.listFiles()
	if err != nil || len(files) == 0 {
		return false
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	if err := os.Remove(files[0].path); err != nil {
		return false
	}
	ds.size -= files[0].size
	return true
}

func (ds *DiskStore) pathsFor(key string) []string {
	return []string{
		ds.generateFilePath(key, false),
		ds.generateFilePath(key, true),
	}
}

func (ds *DiskStore) generateFilePath(key string, compressed bool) string {
	// Use SHA256 hash of key for filename
	hash := sha256.Sum256([]byte(key))
	ext := blobExt
	if compressed {
		ext = compressedBlobExt
	}
	return filepath.Join(ds.basePath, hex.EncodeToString(hash[:16])+ext)
}

func writeFile(path string, data []byte) error {
	// Write to temp file first, then rename (atomic on most systems)
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		_ = os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		_ = os.Remove(tempPath)
		return closeErr
	}

	return os.Rename(tempPath, path)
}
