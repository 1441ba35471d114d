package normalize_test

import (
	"testing"

	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/normalize"
	"github.com/stretchr/testify/assert"
)

func TestConvertString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.Value
	}{
		{name: "integer", input: "625", want: domain.Number(625)},
		{name: "float with padding", input: "  0.658 \n", want: domain.Number(0.658)},
		{name: "negative", input: "-12.5", want: domain.Number(-12.5)},
		{name: "signed exponent", input: "1e-3", want: domain.Number(0.001)},
		{name: "empty", input: "", want: domain.Null()},
		{name: "whitespace only", input: " \t\n ", want: domain.Null()},
		{name: "text is trimmed", input: "  the Darkin Blade ", want: domain.String("the Darkin Blade")},
		{name: "trailing unit stays text", input: "10%", want: domain.String("10%")},
		{name: "comma list stays text", input: "Fighter, Tank", want: domain.String("Fighter, Tank")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.ConvertString(tt.input))
		})
	}
}

func TestRemoveSpaces(t *testing.T) {
	assert.Equal(t, " a b c ", normalize.RemoveSpaces(" a \n\n b\t\tc "))
	assert.Equal(t, "a b", normalize.Clean("\n a   b \n"))
}

func TestStripMarkup(t *testing.T) {
	got := normalize.StripMarkup(`<mainText><stats><attention>25</attention> Attack Damage</stats><br><br>Sells for &amp; more</mainText>`)
	assert.Equal(t, "25 Attack Damage Sells for & more", got)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Fighter", "Tank"}, normalize.SplitList(" Fighter ,Tank, "))
	assert.Empty(t, normalize.SplitList(""))
}

func TestStatKey(t *testing.T) {
	tests := map[string]string{
		"Magic Damage:":                  "magic_damage",
		"  Cast Time ":                   "cast_time",
		"Maximum Non-Minion Damage:":     "maximum_non-minion_damage",
		"On-Attack/On-Hit Effectiveness": "on-attack/on-hit_effectiveness",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalize.StatKey(in), in)
	}
}
