package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// document is the row shape shared by every kind's table. Body holds the
// record as JSON; the other columns are copied out of it for lookups.
type document struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Patch     string         `gorm:"not null"`
	Key       string         `gorm:"not null"`
	Name      string         `gorm:"not null;default:''"`
	Body      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

// documentStore implements repository.DocumentRepository for one kind.
type documentStore[T domain.Document] struct {
	db    *gorm.DB
	kind  domain.Kind
	newFn func() T
}

func newDocumentStore[T domain.Document](db *gorm.DB, kind domain.Kind, newFn func() T) *documentStore[T] {
	return &documentStore[T]{db: db, kind: kind, newFn: newFn}
}

func (s *documentStore[T]) table(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(string(s.kind))
}

func (s *documentStore[T]) conflict(doc T) error {
	return &domain.ConflictError{Kind: s.kind, Key: doc.NaturalKey(), Patch: doc.PatchVersion()}
}

// Add validates and inserts doc. The existence check and insert share a
// transaction; the unique (patch, key) index catches concurrent inserts
// that both pass the check.
func (s *documentStore[T]) Add(ctx context.Context, doc T) (uuid.UUID, error) {
	if err := doc.Validate(); err != nil {
		return uuid.Nil, err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode %s: %w", s.kind, err)
	}

	row := document{
		ID:    uuid.New(),
		Patch: doc.PatchVersion(),
		Key:   doc.NaturalKey(),
		Name:  doc.DisplayName(),
		Body:  datatypes.JSON(body),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(string(s.kind)).Where("patch = ? AND key = ?", row.Patch, row.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return s.conflict(doc)
		}
		return tx.Table(string(s.kind)).Create(&row).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return uuid.Nil, s.conflict(doc)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

func (s *documentStore[T]) Exists(ctx context.Context, patch, key string) (bool, error) {
	var count int64
	err := s.table(ctx).Where("patch = ? AND key = ?", patch, key).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *documentStore[T]) Get(ctx context.Context, patch, key string) (T, error) {
	var row document
	err := s.table(ctx).Where("patch = ? AND key = ?", patch, key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero T
		return zero, fmt.Errorf("%s %s for patch %s: %w", s.kind, key, patch, domain.ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return s.decode(row)
}

func (s *documentStore[T]) ListByPatch(ctx context.Context, patch string) ([]T, error) {
	var rows []document
	if err := s.table(ctx).Where("patch = ?", patch).Order("created_at ASC, key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.decodeAll(rows)
}

func (s *documentStore[T]) ListFields(ctx context.Context, patch string, fields []string) ([]map[string]json.RawMessage, error) {
	var rows []document
	if err := s.table(ctx).Where("patch = ?", patch).Order("created_at ASC, key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		doc, err := project(row, fields)
		if err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", s.kind, row.Key, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// project keeps the requested top-level keys of a row's body and adds the
// row id.
func project(row document, fields []string) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(row.Body, &body); err != nil {
		return nil, err
	}
	id, err := json.Marshal(row.ID)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		body["id"] = id
		return body, nil
	}

	out := make(map[string]json.RawMessage, len(fields)+1)
	for _, f := range fields {
		if v, ok := body[f]; ok {
			out[f] = v
		}
	}
	out["id"] = id
	return out, nil
}

func (s *documentStore[T]) decode(row document) (T, error) {
	doc := s.newFn()
	if err := json.Unmarshal(row.Body, doc); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s %s: %w", s.kind, row.Key, err)
	}
	return doc, nil
}

func (s *documentStore[T]) decodeAll(rows []document) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		doc, err := s.decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
