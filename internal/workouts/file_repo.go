package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/ridesmap/pkg"
)

// FileRepo keeps one <id>.json file per record in a directory
type FileRepo struct {
	dir string
	mu  sync.RWMutex
}

func NewFileRepo(dir string) (*FileRepo, error) {
	if err := pkg.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("file repo dir: %w", err)
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid workout id: %q", id)
	}
	return filepath.Join(r.dir, id+".json"), nil
}

func (r *FileRepo) Get(_ context.Context, id string) (*CustomWorkout, error) {
	p, err := r.path(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	w := &CustomWorkout{}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", p, err)
	}
	return w, nil
}

func (r *FileRepo) GetExisting(ctx context.Context, id string) (*CustomWorkout, error) {
	w, err := r.Get(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		return nil, nil
	}
	return w, err
}

func (r *FileRepo) Upsert(_ context.Context, w *CustomWorkout) error {
	p, err := r.path(w.ID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", w.ID, err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// List returns every stored record ordered by id, which orders them by start time
func (r *FileRepo) List(ctx context.Context) ([]*CustomWorkout, error) {
	r.mu.RLock()
	entries, err := os.ReadDir(r.dir)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)

	records := make([]*CustomWorkout, 0, len(ids))
	for _, id := range ids {
		w, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, w)
	}
	return records, nil
}
