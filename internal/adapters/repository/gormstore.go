package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexigo/tilescore/internal/domain/model"
	"github.com/lexigo/tilescore/pkg/metrics"
)

// scoreRow is the gorm mapping for a persisted score.
type scoreRow struct {
	ID        string    `gorm:"primarykey;type:uuid"`
	Letters   string    `gorm:"not null"`
	Points    int       `gorm:"not null;index:idx_scores_leaderboard,priority:1,sort:desc"`
	CreatedAt time.Time `gorm:"not null;index:idx_scores_leaderboard,priority:2"`
}

// TableName specifies the table name for GORM.
func (scoreRow) TableName() string {
	return "scores"
}

// GormStore implements Store on a relational database. Per-record
// atomicity comes from the database; no application-level locking.
type GormStore struct {
	db    *gorm.DB
	clock func() time.Time
	newID func() string
}

// NewGormStore creates a database-backed store and migrates its schema.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&scoreRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate scores: %w", ErrStorageUnavailable, err)
	}
	return &GormStore{
		db:    db,
		clock: func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}, nil
}

// Save implements Store.Save.
func (s *GormStore) Save(ctx context.Context, letters string, points int) (model.ScoreRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := scoreRow{
		ID:        s.newID(),
		Letters:   letters,
		Points:    points,
		CreatedAt: s.clock(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		metrics.RecordErrorByComponent("repository", "save_failed")
		return model.ScoreRecord{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return model.ScoreRecord(row), nil
}

// Get returns a record by id.
func (s *GormStore) Get(ctx context.Context, id string) (model.ScoreRecord, error) {
	var row scoreRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return model.ScoreRecord{}, ErrNotFound
		}
		return model.ScoreRecord{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return model.ScoreRecord(row), nil
}

// List implements Store.List by translating the sort spec to ORDER BY.
func (s *GormStore) List(ctx context.Context, limit int, sortSpec []SortKey) ([]model.ScoreRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if limit < 0 {
		return nil, ErrNegativeLimit
	}
	if err := validateSort(sortSpec); err != nil {
		return nil, err
	}
	if limit == 0 {
		return []model.ScoreRecord{}, nil
	}

	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Order(orderClause(sortSpec)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		metrics.RecordErrorByComponent("repository", "list_failed")
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	out := make([]model.ScoreRecord, len(rows))
	for i, row := range rows {
		out[i] = model.ScoreRecord(row)
	}
	return out, nil
}

// Delete implements Store.Delete.
func (s *GormStore) Delete(ctx context.Context, ids []string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&scoreRow{})
	if res.Error != nil {
		metrics.RecordErrorByComponent("repository", "delete_failed")
		return 0, fmt.Errorf("%w: %w", ErrStorageUnavailable, res.Error)
	}
	removed := int(res.RowsAffected)
	if removed > 0 {
		metrics.RecordScoresDeleted(removed)
	}
	return removed, nil
}

// Count returns the total number of records, 0 when the database is
// unreachable.
func (s *GormStore) Count(ctx context.Context) int {
	var count int64
	if err := s.db.WithContext(ctx).Model(&scoreRow{}).Count(&count).Error; err != nil {
		return 0
	}
	return int(count)
}

// orderClause renders the sort spec as SQL, defaulting to the
// leaderboard ordering. id ASC keeps listings deterministic.
func orderClause(spec []SortKey) string {
	if len(spec) == 0 {
		spec = DefaultSort()
	}
	parts := make([]string, 0, len(spec)+1)
	for _, k := range spec {
		parts = append(parts, fmt.Sprintf("%s %s", k.Field, strings.ToUpper(string(k.Direction))))
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}
