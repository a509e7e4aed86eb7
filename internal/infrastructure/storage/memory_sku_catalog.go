package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
)

type memorySkuCatalogRepository struct {
	mu   sync.RWMutex
	skus map[string]map[string]entity.SkuCatalogEntry // org_id -> sku_id -> entry
}

// NewMemorySkuCatalogRepository in-memory SKU catalog
func NewMemorySkuCatalogRepository() repository.SkuCatalogRepository {
	return &memorySkuCatalogRepository{
		skus: make(map[string]map[string]entity.SkuCatalogEntry),
	}
}

// ListByOrganization all SKUs of an organization sorted by sku_id
func (m *memorySkuCatalogRepository) ListByOrganization(ctx context.Context, orgID string) ([]entity.SkuCatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]entity.SkuCatalogEntry, 0, len(m.skus[orgID]))
	for _, entry := range m.skus[orgID] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SkuID < entries[j].SkuID })
	return entries, nil
}

// GetByID exact sku_id lookup
func (m *memorySkuCatalogRepository) GetByID(ctx context.Context, orgID, skuID string) (*entity.SkuCatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.skus[orgID][skuID]
	if !exists {
		return nil, &entity.UnknownSkuError{SkuID: skuID}
	}
	return &entry, nil
}

// Search id prefix matches first, then name/token matches, then fuzzy matches
func (m *memorySkuCatalogRepository) Search(ctx context.Context, orgID, query string, limit int) ([]entity.SkuCatalogEntry, error) {
	entries, err := m.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return rankCatalog(entries, query, limit), nil
}

// SaveMany upserts entries for one organization
func (m *memorySkuCatalogRepository) SaveMany(ctx context.Context, orgID string, entries []entity.SkuCatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	org, exists := m.skus[orgID]
	if !exists {
		org = make(map[string]entity.SkuCatalogEntry)
		m.skus[orgID] = org
	}
	for _, entry := range entries {
		org[entry.SkuID] = entry
	}
	return nil
}

type scoredSku struct {
	Entry entity.SkuCatalogEntry
	Score int
}

// rankCatalog scores every entry against the query. An empty query returns the
// catalog head in sku_id order.
//
// Ranking: exact sku_id, sku_id prefix, plain substring of id or name, then the
// compact forms with punctuation dropped ("coke330" finds "COKE-330"), then any
// query token, then the longest shared run of letters and digits with the id or
// name. Compact forms keep non-Latin letters so Cyrillic names stay searchable.
func rankCatalog(entries []entity.SkuCatalogEntry, query string, limit int) []entity.SkuCatalogEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if limit > 0 && len(entries) > limit {
			return entries[:limit]
		}
		return entries
	}

	compactQuery := normalizeAlphaNum(query)
	tokens := normalizeTokens(queryTokens(query))

	var scored []scoredSku
	for _, entry := range entries {
		idLower := strings.ToLower(entry.SkuID)
		nameLower := strings.ToLower(entry.SkuName)
		idCompact := normalizeAlphaNum(entry.SkuID)
		nameCompact := normalizeAlphaNum(entry.SkuName)

		score := 0
		switch {
		case idLower == query:
			score = 100
		case strings.HasPrefix(idLower, query):
			score = 50
		case strings.Contains(idLower, query) || strings.Contains(nameLower, query):
			score = 30
		case compactQuery != "" && (strings.Contains(idCompact, compactQuery) || strings.Contains(nameCompact, compactQuery)):
			score = 20
		case matchTokens(tokens, idCompact, nameCompact):
			score = 10
		default:
			lcs := max(longestCommonSubstringLength(compactQuery, idCompact),
				longestCommonSubstringLength(compactQuery, nameCompact))
			if lcs >= 3 {
				score = lcs
			}
		}
		if score > 0 {
			scored = append(scored, scoredSku{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	results := make([]entity.SkuCatalogEntry, 0, len(scored))
	for _, sp := range scored {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, sp.Entry)
	}
	return results
}

func queryTokens(q string) []string {
	separators := []string{",", ".", "?", "!", ";", ":", "/", "\\", "-", "_"}
	for _, sep := range separators {
		q = strings.ReplaceAll(q, sep, " ")
	}

	var tokens []string
	for _, f := range strings.Fields(q) {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func normalizeTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if n := normalizeAlphaNum(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func matchTokens(tokens []string, parts ...string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		for _, p := range parts {
			if strings.Contains(p, t) {
				return true
			}
		}
	}
	return false
}

// normalizeAlphaNum lowercases s and keeps only letters and digits of any script.
func normalizeAlphaNum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// longestCommonSubstringLength in runes
func longestCommonSubstringLength(as, bs string) int {
	a, b := []rune(as), []rune(bs)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	maxLen := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
				if dp[i][j] > maxLen {
					maxLen = dp[i][j]
				}
			}
		}
	}
	return maxLen
}
