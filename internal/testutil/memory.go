package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory repository.DocumentRepository with the same
// conflict and validation behavior as the Postgres store.
type MemoryStore[T domain.Document] struct {
	kind  domain.Kind
	newFn func() T

	mu   sync.Mutex
	rows []memoryRow
	// AddErr, when set, fails every Add.
	AddErr error
}

type memoryRow struct {
	id    uuid.UUID
	patch string
	key   string
	name  string
	body  []byte
}

func NewMemoryStore[T domain.Document](kind domain.Kind, newFn func() T) *MemoryStore[T] {
	return &MemoryStore[T]{kind: kind, newFn: newFn}
}

func (s *MemoryStore[T]) Add(_ context.Context, doc T) (uuid.UUID, error) {
	if s.AddErr != nil {
		return uuid.Nil, s.AddErr
	}
	if err := doc.Validate(); err != nil {
		return uuid.Nil, err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.patch == doc.PatchVersion() && r.key == doc.NaturalKey() {
			return uuid.Nil, &domain.ConflictError{Kind: s.kind, Key: doc.NaturalKey(), Patch: doc.PatchVersion()}
		}
	}
	row := memoryRow{id: uuid.New(), patch: doc.PatchVersion(), key: doc.NaturalKey(), name: doc.DisplayName(), body: body}
	s.rows = append(s.rows, row)
	return row.id, nil
}

func (s *MemoryStore[T]) Exists(_ context.Context, patch, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.patch == patch && r.key == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore[T]) Get(_ context.Context, patch, key string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.patch == patch && r.key == key {
			return s.decode(r)
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %s for patch %s: %w", s.kind, key, patch, domain.ErrNotFound)
}

func (s *MemoryStore[T]) ListByPatch(_ context.Context, patch string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []T{}
	for _, r := range s.rows {
		if r.patch != patch {
			continue
		}
		doc, err := s.decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *MemoryStore[T]) ListFields(_ context.Context, patch string, fields []string) ([]map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]json.RawMessage{}
	for _, r := range s.rows {
		if r.patch != patch {
			continue
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(r.body, &body); err != nil {
			return nil, err
		}
		doc := body
		if len(fields) > 0 {
			doc = map[string]json.RawMessage{}
			for _, f := range fields {
				if v, ok := body[f]; ok {
					doc[f] = v
				}
			}
		}
		doc["id"] = json.RawMessage(strconv.Quote(r.id.String()))
		out = append(out, doc)
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *MemoryStore[T]) decode(r memoryRow) (T, error) {
	doc := s.newFn()
	if err := json.Unmarshal(r.body, doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

type MemoryChampions struct {
	*MemoryStore[*domain.Champion]
}

func (m MemoryChampions) ListSummaries(_ context.Context, patch string) ([]domain.ChampionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ChampionSummary{}
	for _, r := range m.rows {
		if r.patch != patch {
			continue
		}
		champID, _ := strconv.Atoi(r.key)
		out = append(out, domain.ChampionSummary{ID: r.id.String(), ChampID: champID, Name: r.name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type MemoryPatches struct {
	*MemoryStore[*domain.Patch]
}

func (m MemoryPatches) GetByVersion(ctx context.Context, version string) (*domain.Patch, error) {
	return m.Get(ctx, version, version)
}

func (m MemoryPatches) GetByVersions(ctx context.Context, versions []string) ([]*domain.Patch, error) {
	out := []*domain.Patch{}
	for _, v := range versions {
		p, err := m.GetByVersion(ctx, v)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m MemoryPatches) Latest(ctx context.Context) (*domain.Patch, error) {
	m.mu.Lock()
	rows := append([]memoryRow(nil), m.rows...)
	m.mu.Unlock()

	all := make([]*domain.Patch, 0, len(rows))
	for _, r := range rows {
		p, err := m.decode(r)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("latest patch: %w", domain.ErrNotFound)
	}
	sortNewestFirst(all)
	return all[0], nil
}

func sortNewestFirst(patches []*domain.Patch) {
	sort.SliceStable(patches, func(i, j int) bool {
		return patches[i].CreationDate.After(patches[j].CreationDate)
	})
}

// Memory bundles the in-memory stores behind a repository.Repositories.
type Memory struct {
	Champions      MemoryChampions
	Items          *MemoryStore[*domain.Item]
	Perks          *MemoryStore[*domain.Perks]
	SummonerSpells *MemoryStore[*domain.SummonerSpell]
	Shards         *MemoryStore[*domain.Shard]
	Patches        MemoryPatches
}

func NewMemory() *Memory {
	return &Memory{
		Champions:      MemoryChampions{NewMemoryStore(domain.KindChampion, func() *domain.Champion { return new(domain.Champion) })},
		Items:          NewMemoryStore(domain.KindItem, func() *domain.Item { return new(domain.Item) }),
		Perks:          NewMemoryStore(domain.KindPerks, func() *domain.Perks { return new(domain.Perks) }),
		SummonerSpells: NewMemoryStore(domain.KindSummonerSpell, func() *domain.SummonerSpell { return new(domain.SummonerSpell) }),
		Shards:         NewMemoryStore(domain.KindShard, func() *domain.Shard { return new(domain.Shard) }),
		Patches:        MemoryPatches{NewMemoryStore(domain.KindPatch, func() *domain.Patch { return new(domain.Patch) })},
	}
}

func (m *Memory) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Champion:      m.Champions,
		Item:          m.Items,
		Perks:         m.Perks,
		SummonerSpell: m.SummonerSpells,
		Shard:         m.Shards,
		Patch:         m.Patches,
	}
}
