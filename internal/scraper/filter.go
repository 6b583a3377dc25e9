package scraper

import (
	"log"
	"regexp"
	"strings"

	"pricetrack/internal/model"
)

// Palavras que denunciam acessórios e variações recondicionadas nos
// nomes das listagens.
var accessoryWords = []string{
	"case", "cover", "protector", "screen protector", "tempered glass",
	"charger", "charging", "cable", "adapter", "dock", "docking",
	"stand", "mount", "holder", "sleeve", "pouch", "bag", "backpack",
	"strap", "band", "keyboard", "mouse", "stylus", "pen",
	"film", "skin", "decal", "sticker", "folio",
	"earbuds", "earphones", "headset", "speaker",
	"hub", "dongle", "memory card", "sd card", "usb",
	"insurance", "applecare", "warranty", "protection plan",
	"refurbished", "renewed", "pre-owned",
}

var storageValRe = regexp.MustCompile(`(\d+)\s*[gt]b`)

// FilterListings aplica a higiene pós-busca: remove nomes em branco,
// URLs duplicadas, acessórios (a menos que a própria consulta procure
// um) e variantes com armazenamento diferente do pedido. Varejistas
// repetidos NÃO são filtrados aqui; isso é decisão de quem grava o
// grupo.
func FilterListings(listings []model.RawListing, query string) []model.RawListing {
	queryLower := strings.ToLower(query)
	queryIsAccessory := containsAccessoryWord(queryLower)

	var queryStorage string
	if m := storageValRe.FindStringSubmatch(queryLower); m != nil {
		queryStorage = m[1]
	}

	seen := make(map[string]bool)
	var filtered []model.RawListing

	for _, l := range listings {
		if strings.TrimSpace(l.Name) == "" {
			log.Printf("[Search] Ignorando listagem sem nome: retailer=%s url=%s", l.Retailer, l.URL)
			continue
		}

		cleanURL := strings.TrimRight(strings.SplitN(l.URL, "?", 2)[0], "/")
		if seen[cleanURL] {
			continue
		}
		seen[cleanURL] = true

		nameLower := strings.ToLower(l.Name)

		if !queryIsAccessory && containsAccessoryWord(nameLower) {
			log.Printf("[Search] Filtrado acessório: %s", l.Name)
			continue
		}

		if queryStorage != "" {
			storages := storageValues(nameLower)
			if len(storages) > 0 && !containsString(storages, queryStorage) {
				log.Printf("[Search] Filtrado por armazenamento: %s", l.Name)
				continue
			}
		}

		filtered = append(filtered, l)
	}

	return filtered
}

func containsAccessoryWord(text string) bool {
	for _, w := range accessoryWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func storageValues(name string) []string {
	var vals []string
	for _, m := range storageValRe.FindAllStringSubmatch(name, -1) {
		vals = append(vals, m[1])
	}
	return vals
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
