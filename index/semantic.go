package index

// semantic returns the best cosine similarity per canonical term for the
// query vector, dropping candidates below the threshold. The scan is
// flat: registry sizes stay small enough that exact nearest-neighbor
// search beats an approximate structure.
func (s *snapshot) semantic(vector []float32, threshold float32) map[string]scored {
	hits := make(map[string]scored)
	for _, entry := range s.entries {
		if entry.vector == nil {
			continue
		}
		similarity := dotProduct(vector, entry.vector)
		if similarity < threshold {
			continue
		}
		if best, ok := hits[entry.term.Name]; !ok || float64(similarity) > best.score {
			hits[entry.term.Name] = scored{term: entry.term, score: float64(similarity)}
		}
	}
	return hits
}

// dotProduct calculates the dot product of two vectors.
// For normalized vectors this equals cosine similarity.
func dotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
