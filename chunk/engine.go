package chunk

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/aschepis/llmrelay/dispatch"
	"github.com/aschepis/llmrelay/llm"
)

// Embedding pairs one chunk's text with its vector.
type Embedding struct {
	Chunk  string
	Vector []float64
}

// Set is the joined result of embedding one source text. Embeddings are
// ordered by chunk submission order regardless of completion order; a chunk
// whose sub-request failed simply contributes no entry.
type Set struct {
	Text       string
	ChunkCount int
	Embeddings []Embedding
}

// TotalFailure reports that every issued sub-request failed. It is
// distinguishable from empty input, which has a zero ChunkCount.
func (s *Set) TotalFailure() bool {
	return s.ChunkCount > 0 && len(s.Embeddings) == 0
}

// Engine chunks text and embeds the chunks concurrently through one dispatch
// unit per sub-request lifecycle.
type Engine struct {
	unit      *dispatch.Unit
	model     string
	chunkSize int
	logger    zerolog.Logger
}

// NewEngine creates a chunking engine. cfg configures the underlying dispatch
// units; its Supervisor is ignored, since the engine itself owns timed-out
// sub-requests (a timed-out chunk is just a failed chunk).
func NewEngine(adapter llm.Adapter, cfg dispatch.Config, model string, chunkSize int) *Engine {
	logger := cfg.Logger.With().Str("component", "chunk-engine").Logger()
	cfg.Supervisor = nil
	return &Engine{
		unit:      dispatch.NewUnit(adapter, cfg),
		model:     model,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// Embed splits input, issues every chunk sub-request without waiting for
// prior ones, and joins the results. It replies exactly once: when the
// outstanding count reaches zero, or when ctx is cancelled, in which case the
// set holds whatever completed in time. Individual chunk failures are logged
// and non-fatal; callers detect the all-failed case via Set.TotalFailure.
func (e *Engine) Embed(ctx context.Context, input string) *Set {
	set := &Set{Text: input}

	chunks := lo.Filter(Split(input, e.chunkSize), func(c Chunk, _ int) bool {
		return c.Text != ""
	})
	set.ChunkCount = len(chunks)
	if len(chunks) == 0 {
		e.logger.Warn().Msg("received trivial text")
		return set
	}

	// Fan out. Sub-requests complete in any order; the join below is
	// keyed by chunk text, not arrival order.
	replies := make(chan *llm.Request, len(chunks))
	for _, c := range chunks {
		req := llm.NewRequest(c.Text, e.model)
		e.unit.Submit(req, replies)
	}

	// Chunk text is the join key. Duplicate texts each consume one slot,
	// in ordinal order.
	slots := make(map[string][]int, len(chunks))
	for i, c := range chunks {
		slots[c.Text] = append(slots[c.Text], i)
	}

	vectors := make([][]float64, len(chunks))
	for outstanding := len(chunks); outstanding > 0; outstanding-- {
		var req *llm.Request
		select {
		case req = <-replies:
		case <-ctx.Done():
			e.logger.Warn().Int("outstanding", outstanding).Msg("embedding join cancelled")
			e.collect(set, chunks, vectors)
			return set
		}

		vec, err := req.Vector()
		if err != nil {
			e.logger.Error().Str("request", req.ID).Err(err).Msg("chunk embedding failed")
			continue
		}
		idxs := slots[req.Text]
		if len(idxs) == 0 {
			e.logger.Error().Str("request", req.ID).Msg("embedding reply matches no chunk")
			continue
		}
		vectors[idxs[0]] = vec
		slots[req.Text] = idxs[1:]
	}

	e.collect(set, chunks, vectors)
	return set
}

func (e *Engine) collect(set *Set, chunks []Chunk, vectors [][]float64) {
	for i, c := range chunks {
		if vectors[i] == nil {
			continue
		}
		set.Embeddings = append(set.Embeddings, Embedding{Chunk: c.Text, Vector: vectors[i]})
	}
}
