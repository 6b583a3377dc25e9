package match

import (
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"pricetrack/internal/model"
)

// Variant é o listing representativo de todos os que compartilham a mesma
// chave de identidade; é o que o cliente vê na pré-visualização para escolher.
type Variant struct {
	Key string `json:"key"`
	model.RawListing
}

const maxCoreTokens = 4

var (
	storageRe = regexp.MustCompile(`\b(\d+)\s*([gt]b)\b`)
	punctRe   = regexp.MustCompile(`[,~\[\](){}<>:|]`)
)

// Resolver colapsa listings brutos em variantes distintas de produto.
type Resolver struct {
	tiers  map[string]bool
	colors map[string]bool
	stops  map[string]bool
}

func NewResolver(vocab Vocabulary) *Resolver {
	return &Resolver{
		tiers:  toSet(vocab.Tiers),
		colors: toSet(vocab.Colors),
		stops:  toSet(vocab.StopWords),
	}
}

// Resolve devolve uma variante por chave de identidade, preservando o primeiro
// listing visto de cada chave, na ordem de entrada. Listings sem nome são
// descartados com aviso; um nome que tokeniza para nada ainda produz chave
// (possivelmente vazia) e chaves vazias colidem entre si, de propósito, para
// nunca perder resultados de busca em silêncio.
func (r *Resolver) Resolve(listings []model.RawListing) []Variant {
	seen := make(map[string]bool)
	var variants []Variant

	for _, l := range listings {
		if strings.TrimSpace(l.Name) == "" {
			// Um listing ruim não pode abortar a busca inteira
			log.Printf("[Identity] Ignorando listing sem nome: retailer=%s url=%s", l.Retailer, l.URL)
			continue
		}

		key := r.identityKey(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, Variant{Key: key, RawListing: l})
	}

	return variants
}

// identityKey é função pura dos campos do listing.
func (r *Resolver) identityKey(l model.RawListing) string {
	// Código de modelo do varejista é o sinal mais forte e dispensa heurísticas
	if m := strings.TrimSpace(l.Model); m != "" {
		return strings.ToLower(m)
	}

	name := strings.ToLower(l.Name)

	// Separa o token de armazenamento (256gb, 1tb) antes de tokenizar
	storage := ""
	if loc := storageRe.FindStringSubmatchIndex(name); loc != nil {
		storage = name[loc[2]:loc[3]] + name[loc[4]:loc[5]]
		name = name[:loc[0]] + " " + name[loc[1]:]
	}

	// "|" é o delimitador entre as partes da chave, então cai como pontuação
	name = punctRe.ReplaceAllString(name, " ")

	var core []string
	tierSeen := make(map[string]bool)
	for _, tok := range tokenize(name) {
		switch {
		case r.tiers[tok]:
			tierSeen[tok] = true
		case len(tok) <= 1, tok == storage, r.colors[tok], r.stops[tok]:
			// não distingue identidade
		default:
			if len(core) < maxCoreTokens {
				core = append(core, tok)
			}
		}
	}

	tiers := make([]string, 0, len(tierSeen))
	for t := range tierSeen {
		tiers = append(tiers, t)
	}
	sort.Strings(tiers)

	var parts []string
	if len(core) > 0 {
		parts = append(parts, strings.Join(core, "-"))
	}
	if len(tiers) > 0 {
		parts = append(parts, strings.Join(tiers, "-"))
	}
	if storage != "" {
		parts = append(parts, storage)
	}

	return strings.Join(parts, "|")
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '/' || r == ','
	})
}
