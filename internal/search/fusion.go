package search

import (
	"sort"

	"github.com/hyperjump/kotaeru/internal/keyword"
	"github.com/hyperjump/kotaeru/internal/vector"
)

// FusedResult carries a chunk key with its per-leg and combined scores.
type FusedResult struct {
	Key           string
	Score         float64
	KeywordScore  float64
	SemanticScore float64
}

// NormalizeKeywordScores maps raw keyword scores to [0,1] by dividing by the
// maximum. Bleve scores are unbounded, so without normalization the keyword
// leg would drown out cosine scores during fusion.
func NormalizeKeywordScores(results []*keyword.Result) map[string]float64 {
	normalized := make(map[string]float64, len(results))
	if len(results) == 0 {
		return normalized
	}
	maxScore := results[0].Score
	for _, r := range results {
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	for _, r := range results {
		if maxScore > 0 {
			normalized[r.Key] = r.Score / maxScore
		} else {
			normalized[r.Key] = 0
		}
	}
	return normalized
}

// SemanticScoresByKey indexes vector results by chunk key. Cosine scores
// are already bounded, so they are used as-is.
func SemanticScoresByKey(results []vector.Result) map[string]float64 {
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.Key] = r.Score
	}
	return scores
}

// Fuse combines keyword and semantic score maps with the given weights and
// returns chunk results sorted by combined score, highest first. Equal
// scores order by key so output is deterministic across runs.
func Fuse(keywordScores, semanticScores map[string]float64, keywordWeight, semanticWeight float64) []*FusedResult {
	scoreMap := make(map[string]*FusedResult, len(keywordScores)+len(semanticScores))
	for key, score := range keywordScores {
		scoreMap[key] = &FusedResult{
			Key:          key,
			KeywordScore: score,
		}
	}
	for key, score := range semanticScores {
		if result, exists := scoreMap[key]; exists {
			result.SemanticScore = score
		} else {
			scoreMap[key] = &FusedResult{
				Key:           key,
				SemanticScore: score,
			}
		}
	}

	results := make([]*FusedResult, 0, len(scoreMap))
	for _, result := range scoreMap {
		result.Score = keywordWeight*result.KeywordScore + semanticWeight*result.SemanticScore
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key < results[j].Key
	})
	return results
}
