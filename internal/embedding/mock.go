package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockDimensions is the vector size produced by MockClient.
const MockDimensions = 256

// MockClient produces deterministic embeddings by hashing character bigrams,
// so texts sharing vocabulary land close together without a remote model.
type MockClient struct {
	EmbedError error
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}

	vec := make([]float32, MockDimensions)
	runes := []rune(text)
	for i := range runes {
		end := i + 2
		if end > len(runes) {
			end = len(runes)
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(string(runes[i:end])))
		vec[h.Sum32()%MockDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
