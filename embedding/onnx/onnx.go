// Package onnx implements embedding.Embedder on a local sentence-transformer
// exported to ONNX (all-MiniLM-L6-v2 and similar), tokenized with a
// HuggingFace tokenizer.json. Vectors are attention-masked mean pools of
// last_hidden_state, L2-normalized.
//
// The onnxruntime shared library is loaded on the first Execute, not at
// construction, so a service can start without it and report degraded
// health until the model is needed.
package onnx

import (
	"context"
	"fmt"
	"math"
	"sync"

	tokenizer "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/kbukum/lecturekit/component"
	"github.com/kbukum/lecturekit/embedding"
	"github.com/kbukum/lecturekit/logger"
)

// ProviderName is the registry name of this backend.
const ProviderName = "onnx"

var (
	inputNames  = []string{"input_ids", "attention_mask", "token_type_ids"}
	outputNames = []string{"last_hidden_state"}
)

func init() {
	embedding.Register(ProviderName, func(cfg embedding.Config) (embedding.Embedder, error) {
		return New(cfg, nil), nil
	})
}

// model is the loaded tokenizer and inference session.
type model struct {
	tok     *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// Embedder runs the model in-process.
type Embedder struct {
	cfg   embedding.Config
	model *component.Lazy[*model]
	log   *logger.Logger
}

var _ embedding.Embedder = (*Embedder)(nil)

// New creates an Embedder. Nothing is loaded until the first Execute.
func New(cfg embedding.Config, log *logger.Logger) *Embedder {
	cfg.ApplyDefaults()
	e := &Embedder{cfg: cfg, log: logger.OrDefault(log, "embedding.onnx")}
	e.model = component.NewLazy("onnx-embedding", e.load, func(m *model) error {
		return m.session.Destroy()
	})
	return e
}

func (e *Embedder) Name() string { return ProviderName }

// IsAvailable reports whether the model has been loaded.
func (e *Embedder) IsAvailable(context.Context) bool { return e.model.Initialized() }

// Health implements the health part of component.Component.
func (e *Embedder) Health(context.Context) component.Health { return e.model.Health() }

// Close destroys the session. The runtime environment stays initialized.
func (e *Embedder) Close() error { return e.model.Close() }

// Execute tokenizes texts, runs them in padded batches and pools each row.
func (e *Embedder) Execute(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	m, err := e.model.Get(ctx)
	if err != nil {
		return nil, err
	}

	inputs := make([]tokenizer.EncodeInput, len(texts))
	for i, t := range texts {
		inputs[i] = tokenizer.NewSingleEncodeInput(tokenizer.NewInputSequence(t))
	}
	encodings, err := m.tok.EncodeBatch(inputs, true)
	if err != nil {
		return nil, fmt.Errorf("onnx: tokenize: %w", err)
	}

	seqs := make([]sequence, len(encodings))
	for i := range encodings {
		seqs[i] = newSequence(encodings[i].GetIds(), encodings[i].GetAttentionMask(), e.cfg.MaxSeqLen)
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range planBatches(seqs, e.cfg.MaxBatchTokens) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors, err := m.run(seqs[batch.start:batch.end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (e *Embedder) load(context.Context) (*model, error) {
	tok, err := pretrained.FromFile(e.cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", e.cfg.TokenizerPath, err)
	}
	if err := initEnvironment(e.cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()

	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("set graph optimization: %w", err)
	}
	if err := opts.SetIntraOpNumThreads(0); err != nil {
		e.log.Warn("failed to set onnx thread count", logger.Fields(logger.FieldError, err.Error()))
	}

	session, err := ort.NewDynamicAdvancedSession(e.cfg.ModelPath, inputNames, outputNames, opts)
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", e.cfg.ModelPath, err)
	}
	e.log.Info("onnx embedding model loaded", logger.Fields("model", e.cfg.ModelPath))
	return &model{tok: tok, session: session}, nil
}

var (
	envMu   sync.Mutex
	envDone bool
)

// initEnvironment initializes the process-wide onnxruntime environment once.
// A failed attempt may be retried.
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envDone {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	envDone = true
	return nil
}

func (m *model) run(batch []sequence) ([][]float32, error) {
	rows := len(batch)
	width := 0
	for _, s := range batch {
		width = max(width, len(s.ids))
	}

	ids := make([]int64, rows*width)
	mask := make([]int64, rows*width)
	types := make([]int64, rows*width)
	for i, s := range batch {
		copy(ids[i*width:], s.ids)
		copy(mask[i*width:], s.mask)
	}

	shape := ort.NewShape(int64(rows), int64(width))
	var tensors []ort.Value
	defer func() {
		for _, t := range tensors {
			t.Destroy()
		}
	}()
	for _, data := range [][]int64{ids, mask, types} {
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("onnx: create tensor: %w", err)
		}
		tensors = append(tensors, t)
	}

	outputs := []ort.Value{nil}
	if err := m.session.Run(tensors, outputs); err != nil {
		return nil, fmt.Errorf("onnx: inference: %w", err)
	}
	defer outputs[0].Destroy()

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx: unexpected output type %T", outputs[0])
	}
	outShape := hidden.GetShape()
	if len(outShape) != 3 || outShape[0] != int64(rows) || outShape[1] != int64(width) {
		return nil, fmt.Errorf("onnx: unexpected output shape %v", outShape)
	}
	return meanPool(hidden.GetData(), rows, width, int(outShape[2]), mask), nil
}

// sequence is one tokenized input, truncated to the model's limit.
type sequence struct {
	ids  []int64
	mask []int64
}

func newSequence(ids, mask []int, maxLen int) sequence {
	n := len(ids)
	if maxLen > 0 && n > maxLen {
		n = maxLen
	}
	s := sequence{ids: make([]int64, n), mask: make([]int64, n)}
	for i := 0; i < n; i++ {
		s.ids[i] = int64(ids[i])
		if i < len(mask) {
			s.mask[i] = int64(mask[i])
		}
	}
	return s
}

type span struct{ start, end int }

// planBatches groups consecutive sequences so that rows times the longest
// row stays within budget. A batch always holds at least one sequence.
func planBatches(seqs []sequence, budget int) []span {
	var out []span
	start, width := 0, 0
	for i, s := range seqs {
		w := max(width, len(s.ids))
		if i > start && (i-start+1)*w > budget {
			out = append(out, span{start, i})
			start, w = i, len(s.ids)
		}
		width = w
	}
	if start < len(seqs) {
		out = append(out, span{start, len(seqs)})
	}
	return out
}

// meanPool averages the hidden states of unmasked tokens per row and
// L2-normalizes the result. data is laid out [rows, width, dim].
func meanPool(data []float32, rows, width, dim int, mask []int64) [][]float32 {
	out := make([][]float32, rows)
	for r := 0; r < rows; r++ {
		vec := make([]float32, dim)
		var count float32
		for t := 0; t < width; t++ {
			if mask[r*width+t] == 0 {
				continue
			}
			count++
			row := data[(r*width+t)*dim : (r*width+t+1)*dim]
			for d, v := range row {
				vec[d] += v
			}
		}
		if count > 0 {
			for d := range vec {
				vec[d] /= count
			}
		}
		normalize(vec)
		out[r] = vec
	}
	return out
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
