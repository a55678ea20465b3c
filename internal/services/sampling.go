package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"slices"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// pcgStream is the fixed PCG increment. Changing it changes every generated paper.
const pcgStream = 0x9e3779b97f4a7c15

// maxGeneratedSeed keeps generated seeds exactly representable as JSON numbers.
const maxGeneratedSeed = 1 << 53

// seededRand draws from one PCG stream. It is the only randomness source of paper generation
// and practice selection, so its output must stay stable across releases.
type seededRand struct {
	src *mrand.PCG
}

func newSeededRand(seed uint64) *seededRand {
	return &seededRand{src: mrand.NewPCG(seed, pcgStream)}
}

// intn returns a uniform integer in [0, n) using rejection sampling.
func (r *seededRand) intn(n int) int {
	if n <= 1 {
		return 0
	}
	bound := uint64(n)
	threshold := -bound % bound
	for {
		v := r.src.Uint64()
		if v >= threshold {
			return int(v % bound)
		}
	}
}

// sample draws count items without replacement by a partial Fisher-Yates shuffle of a copy.
func sample[T any](r *seededRand, pool []T, count int) []T {
	items := slices.Clone(pool)
	for i := 0; i < count; i++ {
		j := i + r.intn(len(items)-i)
		items[i], items[j] = items[j], items[i]
	}
	return items[:count]
}

// collapseGroups keeps every ungrouped question and one seeded representative per isomorphic
// group. Groups are visited in sorted key order and the result is ordered by id.
func collapseGroups(r *seededRand, pool []*models.Question) []*models.Question {
	groups := make(map[string][]*models.Question)
	var out []*models.Question
	for _, q := range pool {
		if !q.HasGroup() {
			out = append(out, q)
			continue
		}
		groups[*q.IsomorphicGroup] = append(groups[*q.IsomorphicGroup], q)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		members := groups[k]
		sortByID(members)
		out = append(out, members[r.intn(len(members))])
	}

	sortByID(out)
	return out
}

func sortByID(qs []*models.Question) {
	slices.SortFunc(qs, func(a, b *models.Question) int { return strings.Compare(a.ID, b.ID) })
}

// inRange applies a quota's inclusive difficulty bounds. A zero maximum means unbounded.
func inRange(q *models.Question, quota models.TopicQuota) bool {
	if q.Difficulty < quota.MinDifficulty {
		return false
	}
	return quota.MaxDifficulty == 0 || q.Difficulty <= quota.MaxDifficulty
}

// generateSeed draws a non-negative seed from the operating system's entropy source.
func generateSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxGeneratedSeed))
	if err != nil {
		return 0, fmt.Errorf("failed to generate seed: %w", err)
	}
	return n.Int64(), nil
}
