package domain

import "strconv"

// Shard is a stat-mod perk.
type Shard struct {
	ID          int    `json:"id"`
	Patch       string `json:"patch"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

func (s *Shard) NaturalKey() string   { return strconv.Itoa(s.ID) }
func (s *Shard) PatchVersion() string { return s.Patch }
func (s *Shard) DisplayName() string  { return s.Name }

func (s *Shard) Validate() error {
	var bad []string
	if s.Patch == "" {
		bad = append(bad, "patch")
	}
	if s.Name == "" {
		bad = append(bad, "name")
	}
	if len(bad) > 0 {
		return &ValidationError{Kind: KindShard, Key: s.NaturalKey(), Fields: bad}
	}
	return nil
}
