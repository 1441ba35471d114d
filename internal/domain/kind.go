package domain

// Kind names a stored entity kind. Each kind maps to one table.
type Kind string

const (
	KindChampion      Kind = "champion"
	KindItem          Kind = "item"
	KindPerks         Kind = "perks"
	KindSummonerSpell Kind = "summoner_spell"
	KindShard         Kind = "shard"
	KindPatch         Kind = "patch"
)

// Kinds lists every kind in release order.
var Kinds = []Kind{KindPatch, KindShard, KindPerks, KindSummonerSpell, KindChampion, KindItem}

func (k Kind) Title() string {
	switch k {
	case KindChampion:
		return "Champion"
	case KindItem:
		return "Item"
	case KindPerks:
		return "Perks"
	case KindSummonerSpell:
		return "Summoner spell"
	case KindShard:
		return "Shard"
	case KindPatch:
		return "Patch"
	default:
		return string(k)
	}
}

// Document is implemented by every stored record.
type Document interface {
	// NaturalKey is unique per patch within a kind.
	NaturalKey() string
	PatchVersion() string
	DisplayName() string
	// Validate checks the fields required before the record is stored.
	Validate() error
}
