package usecase

import (
	"log"
	"strings"

	"github.com/mdcatalog/backend/internal/domain"
)

// Match is one (product, SKU item) pair surviving the variant filters. The
// pointers alias the caller's product slice; nothing is copied or mutated.
type Match struct {
	Product *domain.Product
	Item    *domain.SKUItem
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService applies the normalized (code, plating, stone) filter rules
// to a batch of product records. It carries no per-request state, so a single
// instance serves concurrent requests.
//
// ListMatches and BestMatch run deliberately different filter pipelines (the
// stone rule in particular); keep them separate.
type MatchingService struct {
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	return &MatchingService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ListMatches returns every (product, SKU item) pair matching the base code
// and the optional plating/stone filters, in original feed order.
//
// A base code containing "." is treated as a fully-qualified variant code and
// must match the product reference exactly; otherwise a prefix match is used.
// Products failing the code filter are skipped before their items are
// inspected. The plating filter keeps an item when the normalized filter is a
// substring of at least one of the item's normalized plating tags; the stone
// filter applies the same one-directional rule against the product's stone
// tags. Absent filters constrain nothing.
func (s *MatchingService) ListMatches(products []domain.Product, baseCode, plating, stone string) []Match {
	codeNorm := Normalize(baseCode)
	platingNorm := Normalize(plating)
	stoneNorm := Normalize(stone)
	exact := strings.Contains(codeNorm, ".")

	var matches []Match

	for i := range products {
		p := &products[i]
		refNorm := Normalize(p.RefCode())

		if exact {
			if refNorm != codeNorm {
				continue
			}
		} else if !strings.HasPrefix(refNorm, codeNorm) {
			continue
		}

		stonesNorm := normalizeAll(p.Stones)

		for j := range p.Items {
			item := &p.Items[j]

			if platingNorm != "" && !anyContains(normalizeAll(item.Platings), platingNorm) {
				continue
			}
			if stoneNorm != "" && !anyContains(stonesNorm, stoneNorm) {
				continue
			}

			matches = append(matches, Match{Product: p, Item: item})
		}
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] ListMatches code=%q plating=%q stone=%q -> %d pair(s)",
			baseCode, plating, stone, len(matches))
	}

	return matches
}

// BestMatch returns the single best matching (product, SKU item) pair, used
// when exactly one authoritative image/price is required.
//
// Unlike ListMatches, the code filter builds a candidate pool, and each
// subsequent filter narrows the pool only when the narrowing leaves at least
// one candidate; otherwise it is discarded and the wider pool is kept
// (fail-open). The plating narrowing uses equality or filter-in-tag; the
// stone narrowing is bidirectional (filter-in-tag, tag-in-filter, or equal).
// The first surviving candidate in feed order wins. ok is false only when
// the code filter alone empties the pool.
func (s *MatchingService) BestMatch(products []domain.Product, baseCode, plating, stone string) (Match, bool) {
	codeNorm := Normalize(baseCode)
	platingNorm := Normalize(plating)
	stoneNorm := Normalize(stone)
	exact := strings.Contains(codeNorm, ".")

	type candidate struct {
		match    Match
		platings []string
		stones   []string
	}

	var pool []candidate

	for i := range products {
		p := &products[i]
		refNorm := Normalize(p.RefCode())

		if exact {
			if refNorm != codeNorm {
				continue
			}
		} else if !strings.HasPrefix(refNorm, codeNorm) {
			continue
		}

		stonesNorm := normalizeAll(p.Stones)

		for j := range p.Items {
			pool = append(pool, candidate{
				match:    Match{Product: p, Item: &p.Items[j]},
				platings: normalizeAll(p.Items[j].Platings),
				stones:   stonesNorm,
			})
		}
	}

	if len(pool) == 0 {
		if s.enableDebugLogging {
			log.Printf("[MATCH] BestMatch code=%q: no candidates after code filter", baseCode)
		}
		return Match{}, false
	}

	if platingNorm != "" {
		var narrowed []candidate
		for _, c := range pool {
			for _, tag := range c.platings {
				if platingNorm == tag || strings.Contains(tag, platingNorm) {
					narrowed = append(narrowed, c)
					break
				}
			}
		}
		if len(narrowed) > 0 {
			pool = narrowed
		}
	}

	if stoneNorm != "" {
		var narrowed []candidate
		for _, c := range pool {
			for _, tag := range c.stones {
				if stoneNorm == tag || strings.Contains(tag, stoneNorm) || strings.Contains(stoneNorm, tag) {
					narrowed = append(narrowed, c)
					break
				}
			}
		}
		if len(narrowed) > 0 {
			pool = narrowed
		}
	}

	best := pool[0].match
	if s.enableDebugLogging {
		log.Printf("[MATCH] BestMatch code=%q plating=%q stone=%q -> ref=%q (%d candidate(s))",
			baseCode, plating, stone, best.Product.RefCode(), len(pool))
	}

	return best, true
}

// anyContains reports whether sub is a substring of at least one tag.
func anyContains(tags []string, sub string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, sub) {
			return true
		}
	}
	return false
}
