package match

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode"

	"pricetrack/internal/model"
)

// Config controla os parâmetros ajustáveis do matcher. Os valores default vêm
// do comportamento observado em produção e não são lei: ajuste por env quando
// houver corpus rotulado para validar.
type Config struct {
	SimilarityThreshold float64
	SignificantTokenLen int
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.4,
		SignificantTokenLen: 3,
	}
}

// Strategy é uma forma de decidir se dois listings são o mesmo produto físico.
// As estratégias são tentadas em ordem até uma retornar resultado não vazio,
// então adicionar uma nova (ex: GTIN) não exige mexer no restante do engine.
type Strategy interface {
	Name() string
	Match(chosen model.RawListing, all []model.RawListing) []model.RawListing
}

type Matcher struct {
	strategies []Strategy
}

// NewMatcher valida a configuração; valor fora da faixa é erro de programação
// e deve derrubar o startup, nunca ser corrigido em silêncio.
func NewMatcher(vocab Vocabulary, cfg Config) (*Matcher, error) {
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("similarity threshold fora da faixa (0,1]: %v", cfg.SimilarityThreshold)
	}
	if cfg.SignificantTokenLen <= 0 {
		return nil, fmt.Errorf("significant token length inválido: %d", cfg.SignificantTokenLen)
	}

	return &Matcher{
		strategies: []Strategy{
			modelStrategy{},
			fuzzyStrategy{
				tiers:     toSet(vocab.Tiers),
				stops:     toSet(vocab.StopWords),
				threshold: cfg.SimilarityThreshold,
				sigLen:    cfg.SignificantTokenLen,
			},
		},
	}, nil
}

// Match retorna todos os listings considerados o mesmo produto que chosen,
// incluindo o próprio chosen. Varejistas duplicados NÃO são filtrados aqui;
// colapsar para um por varejista é responsabilidade de quem comita o grupo.
// Zero resultados é desfecho normal, não erro.
func (m *Matcher) Match(chosen model.RawListing, all []model.RawListing) []model.RawListing {
	for _, s := range m.strategies {
		if res := s.Match(chosen, all); len(res) > 0 {
			log.Printf("[Match] Estratégia %s encontrou %d listing(s) para %q", s.Name(), len(res), chosen.Name)
			return res
		}
	}
	return nil
}

// modelStrategy: código de modelo igual é exato e autoritativo.
type modelStrategy struct{}

func (modelStrategy) Name() string { return "model" }

func (modelStrategy) Match(chosen model.RawListing, all []model.RawListing) []model.RawListing {
	want := strings.TrimSpace(chosen.Model)
	if want == "" {
		return nil
	}

	var out []model.RawListing
	for _, l := range all {
		if strings.EqualFold(strings.TrimSpace(l.Model), want) {
			out = append(out, l)
		}
	}
	return out
}

// fuzzyStrategy compara nomes normalizados. Dois filtros duros (igualdade de
// tiers e presença dos tokens significativos) seguram os falsos positivos; o
// limiar de Jaccard por cima segura a deriva de texto. Similaridade sozinha
// não basta: aceita tiers diferentes e rejeita variação inocente de cor.
type fuzzyStrategy struct {
	tiers     map[string]bool
	stops     map[string]bool
	threshold float64
	sigLen    int
}

func (fuzzyStrategy) Name() string { return "fuzzy" }

func (s fuzzyStrategy) Match(chosen model.RawListing, all []model.RawListing) []model.RawListing {
	chosenWords := s.keyWords(chosen.Name)
	if len(chosenWords) == 0 {
		return nil
	}
	chosenTiers := s.tierSignature(chosenWords)

	var out []model.RawListing
	for _, cand := range all {
		candWords := s.keyWords(cand.Name)

		// "X" nunca pode casar com "X Pro"
		if s.tierSignature(candWords) != chosenTiers {
			continue
		}
		if !s.containsSignificant(chosenWords, candWords) {
			continue
		}
		if jaccard(chosenWords, candWords) >= s.threshold {
			out = append(out, cand)
		}
	}
	return out
}

func (s fuzzyStrategy) keyWords(name string) map[string]bool {
	name = strings.ToLower(name)
	name = strings.NewReplacer("(", " ", ")", " ").Replace(name)

	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w == "" || s.stops[w] {
			continue
		}
		set[w] = true
	}
	return set
}

func (s fuzzyStrategy) tierSignature(words map[string]bool) string {
	var tiers []string
	for w := range words {
		if s.tiers[w] {
			tiers = append(tiers, w)
		}
	}
	sort.Strings(tiers)
	return strings.Join(tiers, ",")
}

// containsSignificant exige que todo token significativo de chosen apareça no
// candidato. Significativo = mais longo que sigLen ou contendo dígito; isso
// tolera diferenças de cor e descritores menores, mas não deixa escapar
// identificadores (números de modelo, adjetivos distintivos).
func (s fuzzyStrategy) containsSignificant(chosen, cand map[string]bool) bool {
	for w := range chosen {
		if len(w) <= s.sigLen && !strings.ContainsAny(w, "0123456789") {
			continue
		}
		if !cand[w] {
			return false
		}
	}
	return true
}

// jaccard divide a interseção pelo tamanho do conjunto MAIOR, punindo
// candidatos com muitos tokens extras (bundles, kits).
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}

	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(inter) / float64(larger)
}
