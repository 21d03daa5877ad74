// Package runtime implements the interpreter session: the component that
// actually executes a Model's plan against bound input tensors, dispatching
// each node to its operator kernel and managing scratch-tensor lifetime.
package runtime

import (
	"github.com/zerfoo/onnxrt/concurrent"
	"github.com/zerfoo/onnxrt/ir"
	"github.com/zerfoo/onnxrt/kernel"
	"github.com/zerfoo/onnxrt/schedule"
	"github.com/zerfoo/onnxrt/shapeinfer"
	"github.com/zerfoo/onnxrt/tensor"
)

// Builder configures and constructs a Session. The zero value is not
// usable; start from New.
type Builder struct {
	model              *ir.Model
	intraOpNumThreads  int
	profilingEnabled   bool
	backend            Backend
	inputShapes        map[ir.ValueId]tensor.TypedShape
}

// New starts a Builder for model with default settings: single-threaded,
// profiling disabled, CPU backend.
func New(model *ir.Model) *Builder {
	return &Builder{
		model:             model,
		intraOpNumThreads: 1,
		backend:           BackendCPU,
		inputShapes:       make(map[ir.ValueId]tensor.TypedShape),
	}
}

// WithIntraOpNumThreads sets the worker-pool size each operator kernel may
// fan out onto. n < 1 is treated as 1.
func (b *Builder) WithIntraOpNumThreads(n int) *Builder {
	b.intraOpNumThreads = n

	return b
}

// WithProfilingEnabled toggles per-node timing collection.
func (b *Builder) WithProfilingEnabled(enabled bool) *Builder {
	b.profilingEnabled = enabled

	return b
}

// WithBackend selects the execution backend. Only BackendCPU builds
// successfully today.
func (b *Builder) WithBackend(backend Backend) *Builder {
	b.backend = backend

	return b
}

// WithInputShape declares the TypedShape of a model input for shape
// inference. Every model input must have a declared shape before Build.
func (b *Builder) WithInputShape(id ir.ValueId, shape tensor.TypedShape) *Builder {
	b.inputShapes[id] = shape

	return b
}

// Build validates the model, runs shape inference and scheduling once, and
// returns a Session ready to accept runs.
func (b *Builder) Build() (*Session, error) {
	if err := b.backend.checkAvailable(); err != nil {
		return nil, err
	}

	if err := b.model.Validate(); err != nil {
		return nil, err
	}

	order, err := b.model.TopoSort()
	if err != nil {
		return nil, err
	}

	shapes, err := shapeinfer.Infer(b.model, order, b.inputShapes)
	if err != nil {
		return nil, err
	}

	plan := schedule.Build(b.model, order)

	numThreads := b.intraOpNumThreads
	if numThreads < 1 {
		numThreads = 1
	}

	return &Session{
		model:      b.model,
		plan:       plan,
		shapes:     shapes,
		pool:       concurrent.New(numThreads),
		profiling:  b.profilingEnabled,
		ledger:     newProfilingLedger(b.profilingEnabled),
	}, nil
}

// Session executes a Model's precomputed plan against bound feeds. A
// Session is safe to Run repeatedly but not concurrently: scratch storage
// is single-use per Run.
type Session struct {
	model  *ir.Model
	plan   *schedule.Plan
	shapes map[ir.ValueId]tensor.TypedShape

	pool      *concurrent.Pool
	profiling bool
	ledger    *profilingLedger
}

// Close releases the session's worker pool.
func (s *Session) Close() {
	s.pool.Close()
}

// Timings returns per-node execution durations recorded during Run calls.
// Empty unless the session was built with WithProfilingEnabled(true).
func (s *Session) Timings() []NodeTiming {
	return s.ledger.Timings()
}

// Feed binds a caller-supplied tensor to a model input ValueId.
type Feed struct {
	Input ir.ValueId
	Data  *tensor.Tensor
}

// Run executes every node in plan order and returns the model's outputs in
// declaration order. feeds must cover every model input exactly once.
func (s *Session) Run(feeds []Feed) ([]*tensor.Tensor, error) {
	sc := newScratch()

	if err := s.bindFeeds(sc, feeds); err != nil {
		return nil, err
	}

	for vid, t := range s.model.Inits {
		sc.bind(vid, t)
	}

	for _, nid := range s.plan.Order {
		if err := s.runNode(sc, nid); err != nil {
			return nil, err
		}

		for _, vid := range s.plan.FreeSets[nid] {
			sc.free(vid)
		}
	}

	outputs := make([]*tensor.Tensor, len(s.model.Outputs))

	for i, vid := range s.model.Outputs {
		t, ok := sc.get(vid)
		if !ok {
			return nil, ir.Newf(ir.InvalidModel, "model output value %d was never produced", vid)
		}

		outputs[i] = t
	}

	return outputs, nil
}

func (s *Session) bindFeeds(sc *scratch, feeds []Feed) error {
	declared := make(map[ir.ValueId]bool, len(s.model.Inputs))
	for _, id := range s.model.Inputs {
		declared[id] = true
	}

	seen := make(map[ir.ValueId]bool, len(feeds))

	for _, f := range feeds {
		if !declared[f.Input] {
			return feedMismatch(f.Input, "is not a declared model input")
		}

		want, ok := s.shapes[f.Input]
		if !ok {
			return feedMismatch(f.Input, "has no inferred shape")
		}

		got := f.Data.TypedShape()
		if !want.Equal(got) {
			return feedMismatch(f.Input, "expected %s, got %s", want, got)
		}

		sc.bind(f.Input, f.Data)
		seen[f.Input] = true
	}

	for _, id := range s.model.Inputs {
		if !seen[id] {
			return feedMismatch(id, "no feed supplied for declared model input")
		}
	}

	return nil
}

func (s *Session) runNode(sc *scratch, nid ir.NodeId) error {
	node := s.model.Nodes.Get(nid)

	inputs := make([]*tensor.Tensor, len(node.Inputs))

	for i, vid := range node.Inputs {
		t, ok := sc.get(vid)
		if !ok {
			return ir.Newf(ir.InvalidModel, "node %s: input value %d has no bound tensor", node.Name, vid)
		}

		inputs[i] = t
	}

	outputs := make([]*tensor.Tensor, len(node.Outputs))

	for i, vid := range node.Outputs {
		shape, ok := s.shapes[vid]
		if !ok {
			return ir.Newf(ir.InvalidModel, "node %s: output value %d has no inferred shape", node.Name, vid)
		}

		outputs[i] = tensor.Uninit(shape.Dims, shape.ElemTy)
	}

	ev, err := kernel.Lookup(node.Op.Kind)
	if err != nil {
		return err
	}

	stop := s.ledger.start(node.Name, node.Op.Kind)

	var kernelErr error

	s.pool.Scope(func(sp *concurrent.Scope) {
		kernelErr = ev.Eval(inputs, outputs, &node.Op, sp)
	})

	stop()

	if kernelErr != nil {
		return kernelErr
	}

	for i, vid := range node.Outputs {
		sc.bind(vid, outputs[i])
	}

	return nil
}
