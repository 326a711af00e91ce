package resolve

import (
	"sort"

	"relink/internal/media"
	"relink/internal/resolve/tmdb"
	"relink/internal/textutil"
)

type scoredResult struct {
	result tmdb.Result
	score  float64
}

// rank scores search results against the candidate and sorts them best
// first. The score is title similarity plus a small year-proximity bonus;
// remaining ties break on popularity, then ID, so ordering stays
// deterministic for identical inputs.
func rank(cand media.Candidate, results []tmdb.Result) []scoredResult {
	ranked := make([]scoredResult, 0, len(results))
	for _, res := range results {
		title := res.BestTitle()
		if title == "" {
			continue
		}
		score := textutil.TitleSimilarity(cand.Title, title)
		score += yearBonus(cand.Year, res.Year())
		ranked = append(ranked, scoredResult{result: res, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].result.Popularity != ranked[j].result.Popularity {
			return ranked[i].result.Popularity > ranked[j].result.Popularity
		}
		return ranked[i].result.ID < ranked[j].result.ID
	})
	return ranked
}

func yearBonus(want, got int) float64 {
	if want == 0 || got == 0 {
		return 0
	}
	switch diff := abs(want - got); diff {
	case 0:
		return 0.05
	case 1:
		return 0.02
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
