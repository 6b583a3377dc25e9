package match

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Vocabulary reúne as listas de palavras que orientam a identidade de produto.
// Os defaults cobrem eletrônicos de consumo; um arquivo JSON pode substituí-los
// por categoria, sem mudança de código.
type Vocabulary struct {
	Tiers     []string `json:"tiers"`
	Colors    []string `json:"colors"`
	StopWords []string `json:"stop_words"`
}

// DefaultVocabulary retorna as listas embutidas.
// Palavras de tier distinguem variantes reais ("Pro" nunca é o mesmo produto
// que o não-Pro); cores nunca distinguem (o mesmo produto em outra cor é o
// mesmo item rastreado).
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Tiers: []string{"pro", "max", "plus", "ultra", "mini", "lite", "se", "air"},
		Colors: []string{
			"black", "white", "silver", "gold", "grey", "gray", "blue", "red",
			"green", "pink", "purple", "midnight", "starlight", "titanium",
			"graphite", "space", "teal", "ultramarine", "violet", "yellow",
			"orange", "cream", "lavender", "coral", "mint",
		},
		StopWords: []string{
			"refurbished", "excellent", "good", "fair", "renewed", "certified",
			"unlocked", "sim-free", "with", "chip", "the", "and", "for", "5g",
		},
	}
}

// LoadVocabulary lê um vocabulário alternativo de um arquivo JSON.
func LoadVocabulary(path string) (Vocabulary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("erro ao ler vocabulário %s: %w", path, err)
	}

	var v Vocabulary
	if err := json.Unmarshal(b, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("erro ao decodificar vocabulário %s: %w", path, err)
	}

	return v, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		set[w] = true
		// Entradas compostas ("sim-free") entram inteiras e divididas; a
		// tokenização de nomes quebra em hífen antes de consultar o conjunto.
		for _, part := range strings.FieldsFunc(w, func(r rune) bool {
			return r == '-' || r == '/' || r == ' '
		}) {
			set[part] = true
		}
	}
	return set
}
