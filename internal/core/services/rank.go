package services

import (
	"math"
	"sort"
	"strconv"

	"github.com/custodia-labs/pagesearch/internal/core/domain"
)

// RankReduce orders candidates by descending relevance, drops repeated
// (url, chunk_index) pairs and keeps the first topK.
//
// The sort is stable, so among equal scores the vector index order wins.
// Because deduplication runs after sorting, the surviving entry of any
// duplicate pair is the higher-scoring one.
func RankReduce(candidates []domain.ScoredCandidate, topK int) []domain.ScoredCandidate {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	sorted := make([]domain.ScoredCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]domain.ScoredCandidate, 0, min(topK, len(sorted)))
	for _, c := range sorted {
		key := c.URL + "\x00" + strconv.Itoa(c.ChunkIndex)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if len(out) == topK {
			break
		}
	}
	return out
}

// FetchK returns the size of the over-fetched candidate pool.
func FetchK(topK, multiplier, limit int) int {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	if multiplier <= 0 {
		multiplier = 1
	}
	k := topK * multiplier
	if limit > 0 && k > limit {
		k = limit
	}
	return k
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
