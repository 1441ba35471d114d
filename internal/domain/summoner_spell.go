package domain

import "strconv"

type SummonerSpell struct {
	ID            int      `json:"id"`
	Patch         string   `json:"patch"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Icon          *string  `json:"icon"`
	SummonerLevel int      `json:"summoner_level"`
	Cooldown      float64  `json:"cooldown"`
	GameModes     []string `json:"game_modes"`
}

func (s *SummonerSpell) NaturalKey() string   { return strconv.Itoa(s.ID) }
func (s *SummonerSpell) PatchVersion() string { return s.Patch }
func (s *SummonerSpell) DisplayName() string  { return s.Name }

func (s *SummonerSpell) Validate() error {
	var bad []string
	if s.Patch == "" {
		bad = append(bad, "patch")
	}
	if s.Name == "" {
		bad = append(bad, "name")
	}
	if len(bad) > 0 {
		return &ValidationError{Kind: KindSummonerSpell, Key: s.NaturalKey(), Fields: bad}
	}
	return nil
}
