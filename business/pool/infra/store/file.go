package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sony/gobreaker/v2"

	"github.com/mglvn/swappool/business/pool/domain"
	"github.com/mglvn/swappool/internal/apperror"
	"github.com/mglvn/swappool/internal/circuitbreaker"
	"github.com/mglvn/swappool/internal/logger"
)

// FileStore persists snapshots as JSON on disk. Writes go through a temp
// file plus rename so a crash mid-write never leaves a torn snapshot, and
// through a circuit breaker so a failing disk stops being hammered.
type FileStore struct {
	path    string
	mu      sync.Mutex
	breaker *circuitbreaker.CircuitBreaker[*domain.Snapshot]
	logger  logger.LoggerInterface
}

// NewFileStore creates a store writing to path, creating parent directories
// as needed.
func NewFileStore(path string, log logger.LoggerInterface) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperror.New(apperror.CodeSnapshotSaveFailed,
			apperror.WithContext(path), apperror.WithCause(err))
	}

	cfg := circuitbreaker.DefaultConfig("snapshot-store")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "snapshot store breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &FileStore{
		path:    path,
		breaker: circuitbreaker.New[*domain.Snapshot](cfg),
		logger:  log,
	}, nil
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(_ context.Context, snap *domain.Snapshot) error {
	_, err := s.breaker.Execute(func() (*domain.Snapshot, error) {
		return nil, s.write(snap)
	})
	if err != nil {
		return apperror.New(apperror.CodeSnapshotSaveFailed,
			apperror.WithContext(s.path), apperror.WithCause(err))
	}
	return nil
}

func (s *FileStore) write(snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the latest snapshot. A missing file means a fresh start and
// returns nil, nil.
func (s *FileStore) Load(_ context.Context) (*domain.Snapshot, error) {
	return s.breaker.Execute(func() (*domain.Snapshot, error) {
		s.mu.Lock()
		data, err := os.ReadFile(s.path)
		s.mu.Unlock()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, apperror.New(apperror.CodeSnapshotLoadFailed,
				apperror.WithContext(s.path), apperror.WithCause(err))
		}

		var snap domain.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, apperror.New(apperror.CodeSnapshotCorrupted,
				apperror.WithContext(s.path), apperror.WithCause(err))
		}
		return &snap, nil
	})
}
