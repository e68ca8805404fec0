package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BatchSpec — декларативное описание партии задач из tasks.yaml.
//
// Партия либо запускается немедленно (нет ни start_at, ни cron),
// либо по времени start_at (RFC3339), либо по cron-расписанию.
type BatchSpec struct {
	// Product — артикул товара (cod1S номенклатуры).
	Product uint64 `yaml:"product"`

	// Size — имя размера ("" — безразмерный товар).
	Size string `yaml:"size,omitempty"`

	// StartAt — момент старта в RFC3339.
	StartAt string `yaml:"start_at,omitempty"`

	// Cron — cron-выражение для повторяющихся стартов.
	Cron string `yaml:"cron,omitempty"`
}

// Validate проверяет согласованность описания партии.
func (b BatchSpec) Validate() error {
	if b.Product == 0 {
		return errors.New("batch: product is required")
	}
	if b.StartAt != "" && b.Cron != "" {
		return errors.New("batch: start_at and cron are mutually exclusive")
	}
	if b.StartAt != "" {
		if _, err := time.Parse(time.RFC3339, b.StartAt); err != nil {
			return fmt.Errorf("batch: bad start_at: %w", err)
		}
	}
	return nil
}

// StartTime возвращает момент старта, если задан start_at.
func (b BatchSpec) StartTime() (time.Time, bool) {
	if b.StartAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, b.StartAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// batchFile — корневой документ tasks.yaml.
type batchFile struct {
	Batches []BatchSpec `yaml:"batches"`
}

// LoadBatches загружает описания партий из tasks.yaml.
// Отсутствующий файл — пустой список, не ошибка.
func (s *Store) LoadBatches() ([]BatchSpec, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, batchesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", batchesFile, err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", batchesFile, err)
	}

	for i, batch := range file.Batches {
		if err := batch.Validate(); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", batchesFile, i, err)
		}
	}
	return file.Batches, nil
}
