package storage

import (
	"checkinboard/internal/providers"
	"checkinboard/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// StorageInterface is a keyed string store, one record per key.
type StorageInterface interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore keeps every record in memory and rewrites the whole file on
// each change.
type FileStore struct {
	mu         sync.RWMutex
	path       string
	records    map[string]string
	compressor CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileStore {
	fs := &FileStore{
		path:       conf.Storage.FilePath,
		records:    make(map[string]string),
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
	if err := fs.loadFromFile(); err != nil {
		logger.Warnf(providers.TypeApp, "Unreadable storage file %s, starting empty: %s", fs.path, err)
	}
	return fs
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	val, ok := fs.records[key]
	return val, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.records[key] = value
	return fs.saveToFile()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.records[key]; !ok {
		return nil
	}
	delete(fs.records, key)
	return fs.saveToFile()
}

func (fs *FileStore) Close() {
	fs.compressor.Close()
}

func (fs *FileStore) loadFromFile() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	decompressed, err := fs.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}

	var records map[string]string
	if err := json.Unmarshal(decompressed, &records); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if records != nil {
		fs.records = records
	}
	return nil
}

// saveToFile must be called with mu held.
func (fs *FileStore) saveToFile() error {
	start := time.Now()
	defer func() { fs.metrics.ObservePersistenceDuration(time.Since(start)) }()

	jsonData, err := json.Marshal(fs.records)
	if err != nil {
		return err
	}
	data, err := fs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return err
	}
	tmpFile := fs.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fs.path)
}
