package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"

	openai "github.com/sashabaranov/go-openai"

	"pricetrack/internal/model"
)

const (
	embeddingModel = "text-embedding-3-small"
	minSimilarity  = 0.5
	maxSuggestions = 5
)

// Suggestion é um listing que o matcher não aceitou mas cujo nome é
// semanticamente próximo do produto escolhido. Sugestão não vira
// produto sozinha; o cliente precisa confirmar a URL no add-selected.
type Suggestion struct {
	Listing    model.RawListing `json:"listing"`
	Similarity float64          `json:"similarity"`
}

type Suggester struct {
	Client *openai.Client
}

// New devolve nil quando não há chave de API. Sugestões semânticas são
// opcionais; o resto do sistema funciona sem elas.
func New(apiKey string) *Suggester {
	if apiKey == "" {
		return nil
	}
	return &Suggester{Client: openai.NewClient(apiKey)}
}

// Rank embute o nome escolhido e todos os candidatos numa única
// chamada e devolve os candidatos com cosseno >= 0.5, do mais parecido
// para o menos, no máximo 5.
func (s *Suggester) Rank(chosen string, candidates []model.RawListing) ([]Suggestion, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	input := make([]string, 0, len(candidates)+1)
	input = append(input, chosen)
	for _, c := range candidates {
		input = append(input, c.Name)
	}

	resp, err := s.Client.CreateEmbeddings(
		context.Background(),
		openai.EmbeddingRequest{
			Model: embeddingModel,
			Input: input,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("esperava %d embeddings, veio %d", len(input), len(resp.Data))
	}

	base := resp.Data[0].Embedding

	var out []Suggestion
	for i, c := range candidates {
		sim := cosine(base, resp.Data[i+1].Embedding)
		if sim >= minSimilarity {
			out = append(out, Suggestion{Listing: c, Similarity: sim})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
