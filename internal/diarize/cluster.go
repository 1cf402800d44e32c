package diarize

import (
	"fmt"
	"math"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

// ClusterSpeakers groups embedding vectors into at most maxSpeakers clusters
// using agglomerative clustering with cosine distance and average linkage.
// It returns one label per input vector, in input order. Labels are numbered
// by order of first appearance, so the assignment is deterministic for a
// given input.
func ClusterSpeakers(embeddings [][]float64, maxSpeakers int) ([]int, error) {
	n := len(embeddings)
	if n == 0 {
		return nil, fmt.Errorf("%w: no embeddings", types.ErrInsufficientData)
	}

	k := maxSpeakers
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	// Pairwise cosine distances between points.
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := cosineDistance(embeddings[i], embeddings[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	// Each point starts as its own cluster. Cluster distances are maintained
	// with the Lance-Williams update for average linkage, which keeps every
	// inter-cluster distance equal to the mean pairwise point distance.
	size := make([]int, n)
	alive := make([]bool, n)
	cluster := make([]int, n) // point -> cluster id
	for i := 0; i < n; i++ {
		size[i] = 1
		alive[i] = true
		cluster[i] = i
	}

	remaining := n
	for remaining > k {
		// Lowest-index pair wins ties so the merge order is reproducible.
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !alive[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !alive[j] {
					continue
				}
				if dist[i][j] < best {
					best = dist[i][j]
					bi, bj = i, j
				}
			}
		}

		// Merge bj into bi.
		for o := 0; o < n; o++ {
			if !alive[o] || o == bi || o == bj {
				continue
			}
			merged := (float64(size[bi])*dist[bi][o] + float64(size[bj])*dist[bj][o]) /
				float64(size[bi]+size[bj])
			dist[bi][o] = merged
			dist[o][bi] = merged
		}
		size[bi] += size[bj]
		alive[bj] = false
		for p := 0; p < n; p++ {
			if cluster[p] == bj {
				cluster[p] = bi
			}
		}
		remaining--
	}

	// Renumber clusters by first appearance in window order.
	labels := make([]int, n)
	relabel := make(map[int]int, k)
	next := 0
	for p := 0; p < n; p++ {
		id, ok := relabel[cluster[p]]
		if !ok {
			id = next
			relabel[cluster[p]] = id
			next++
		}
		labels[p] = id
	}

	return labels, nil
}

// cosineDistance returns 1 - cos(a, b). Zero vectors are treated as
// maximally distant from everything.
func cosineDistance(a, b []float64) float64 {
	var dot, na, nb float64
	m := len(a)
	if len(b) < m {
		m = len(b)
	}
	for i := 0; i < m; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
