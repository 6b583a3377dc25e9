package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pricetrack/internal/model"
)

const previewTTL = 30 * time.Minute

// Preview guarda o resultado de uma busca entre o preview e a
// confirmação do usuário, para não raspar os varejistas duas vezes.
type Preview struct {
	Query    string             `json:"query"`
	Category string             `json:"category"`
	Listings []model.RawListing `json:"listings"`
}

type PreviewStore struct {
	Client *redis.Client
}

func (s *PreviewStore) Save(p *Preview) (string, error) {
	ctx := context.Background()

	id := "search:" + uuid.New().String()
	b, _ := json.Marshal(p)

	if err := s.Client.Set(ctx, id, b, previewTTL).Err(); err != nil {
		return "", err
	}

	return id, nil
}

// Get devolve nil quando a sessão não existe ou expirou.
func (s *PreviewStore) Get(id string) (*Preview, error) {
	ctx := context.Background()

	val, err := s.Client.Get(ctx, id).Result()
	if err != nil {
		return nil, nil
	}

	var p Preview
	json.Unmarshal([]byte(val), &p)

	return &p, nil
}
