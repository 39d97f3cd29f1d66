package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SqliteStore implements Store using SQLite with the sqlite-vec extension.
type SqliteStore struct {
	db     *gorm.DB
	vecDim int
}

type sqliteMemoryRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Content  string
	Metadata datatypes.JSONType[map[string]any]
}

func (sqliteMemoryRecord) TableName() string {
	return "memories"
}

var _ Store = (*SqliteStore)(nil)

// NewSqliteStore opens (creating if necessary) a per-modality memory
// database. dimension must match the embedder feeding this store.
func NewSqliteStore(dbPath string, dimension int) (*SqliteStore, error) {
	sqlite_vec.Auto()

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create store directory for %s", dbPath)
		}
	}

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on", dbPath)),
		&gorm.Config{},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database at %s", dbPath)
	}

	store := &SqliteStore{
		db:     db,
		vecDim: dimension,
	}

	if err := db.AutoMigrate(&sqliteMemoryRecord{}); err != nil {
		return nil, errors.Wrapf(err, "failed to migrate memories table")
	}

	if err := store.createVectorTable(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SqliteStore) createVectorTable() error {
	var sqliteVersion, vecVersion string
	if err := s.db.Raw("SELECT sqlite_version(), vec_version()").Row().Scan(&sqliteVersion, &vecVersion); err != nil {
		return errors.Wrapf(err, "sqlite-vec extension not properly loaded")
	}

	createTableSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS memory_vectors USING vec0(
			memory_id TEXT PRIMARY KEY,
			embedding float[%d]
		);
	`, s.vecDim)

	if err := s.db.Exec(createTableSQL).Error; err != nil {
		return errors.Wrapf(err, "failed to create memory_vectors table")
	}

	return nil
}

// Insert implements Store.Insert. Inserting an existing ID overwrites the
// record and its vector, which makes ingestion idempotent for
// content-addressed IDs.
func (s *SqliteStore) Insert(ctx context.Context, item *Item) error {
	if len(item.Embedding) != s.vecDim {
		return errors.Errorf("embedding dimension mismatch: got %d, expected %d", len(item.Embedding), s.vecDim)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := sqliteMemoryRecord{
			ID:       item.ID,
			Content:  item.Content,
			Metadata: datatypes.NewJSONType(item.Metadata),
		}
		if err := tx.Save(&record).Error; err != nil {
			return errors.Wrapf(err, "failed to save memory record")
		}

		if err := tx.Exec("DELETE FROM memory_vectors WHERE memory_id = ?", item.ID).Error; err != nil {
			return errors.Wrapf(err, "failed to delete existing vector")
		}

		serialized, err := sqlite_vec.SerializeFloat32(item.Embedding)
		if err != nil {
			return errors.Wrapf(err, "failed to serialize embedding")
		}

		if err := tx.Exec("INSERT INTO memory_vectors (memory_id, embedding) VALUES (?, ?)", item.ID, serialized).Error; err != nil {
			return errors.Wrapf(err, "failed to insert memory vector")
		}

		return nil
	})
}

// Search implements Store.Search via a sqlite-vec KNN query.
func (s *SqliteStore) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchHit, error) {
	if len(queryEmbedding) == 0 {
		return []SearchHit{}, nil
	}

	serialized, err := sqlite_vec.SerializeFloat32(queryEmbedding)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize query embedding")
	}

	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT memory_id, distance
		FROM memory_vectors
		WHERE embedding MATCH ?
		ORDER BY distance
		LIMIT ?
	`, serialized, limit).Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute search query")
	}
	defer rows.Close()

	var ids []string
	distanceByID := make(map[string]float32)
	for rows.Next() {
		var (
			id       string
			distance float32
		)
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, errors.Wrapf(err, "failed to scan result row")
		}
		ids = append(ids, id)
		distanceByID[id] = distance
	}

	if len(ids) == 0 {
		return []SearchHit{}, nil
	}

	var records []sqliteMemoryRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to fetch memory records")
	}
	recordByID := make(map[string]sqliteMemoryRecord, len(records))
	for _, record := range records {
		recordByID[record.ID] = record
	}

	// nearest-first, as the vector query returned them
	hits := make([]SearchHit, 0, len(ids))
	for _, id := range ids {
		record, ok := recordByID[id]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{
			ID:       record.ID,
			Content:  record.Content,
			Metadata: record.Metadata.Data(),
			Score:    1.0 - distanceByID[id],
		})
	}

	return hits, nil
}

// Get implements Store.Get.
func (s *SqliteStore) Get(ctx context.Context, id string) (*Item, error) {
	var record sqliteMemoryRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to fetch memory record")
	}

	return &Item{
		ID:        record.ID,
		Content:   record.Content,
		Metadata:  record.Metadata.Data(),
		CreatedAt: record.CreatedAt,
	}, nil
}

// List implements Store.List, newest first.
func (s *SqliteStore) List(ctx context.Context, limit int) ([]*Item, error) {
	var records []sqliteMemoryRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list memory records")
	}

	items := make([]*Item, 0, len(records))
	for _, record := range records {
		items = append(items, &Item{
			ID:        record.ID,
			Content:   record.Content,
			Metadata:  record.Metadata.Data(),
			CreatedAt: record.CreatedAt,
		})
	}
	return items, nil
}

// Count implements Store.Count.
func (s *SqliteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&sqliteMemoryRecord{}).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to count memory records")
	}
	return count, nil
}

// Delete implements Store.Delete.
func (s *SqliteStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM memory_vectors WHERE memory_id = ?", id).Error; err != nil {
			return errors.Wrapf(err, "failed to delete memory vector")
		}
		if err := tx.Delete(&sqliteMemoryRecord{}, "id = ?", id).Error; err != nil {
			return errors.Wrapf(err, "failed to delete memory record")
		}
		return nil
	})
}

// Close implements Store.Close.
func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
