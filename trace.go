package enumpath

import (
	"context"
	"log/slog"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/operator"
	"github.com/jacoelho/enumpath/internal/stack"
)

// frame is one pending branch of the trace.
type frame struct {
	remaining []string
	node      any
	resolved  []string
	depth     int
}

// tracer walks branches depth-first using an explicit work list. Children
// of a frame are pushed in emission order so each branch completes before
// its next sibling starts.
type tracer struct {
	collector *collector
	log       *diagnostics.Logger
	maxDepth  int
	work      *stack.Stack[frame]
}

func newTracer(c *collector, log *diagnostics.Logger, maxDepth int) *tracer {
	return &tracer{
		collector: c,
		log:       log,
		maxDepth:  maxDepth,
		work:      stack.NewWithCapacity[frame](16),
	}
}

func (t *tracer) run(ctx context.Context, segments []string, node any) error {
	t.work.Reset()
	t.work.Push(frame{remaining: segments, node: node})

	for !t.work.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, _ := t.work.Pop()
		t.step(f)
	}
	return nil
}

func (t *tracer) step(f frame) {
	t.log.SetDepth(f.depth)

	if len(f.remaining) == 0 {
		t.log.Log("Storing", func() []slog.Attr {
			return []slog.Attr{slog.Any("resolved_path", f.resolved), diagnostics.Value("enum", f.node)}
		})
		t.collector.store(f.resolved, f.node)
		return
	}

	t.log.Log("Applying", func() []slog.Attr {
		return []slog.Attr{
			slog.Any("operator", f.remaining),
			diagnostics.Value("to", f.node),
			slog.Int("pending", t.work.Size()),
		}
	})

	if t.maxDepth > 0 && f.depth >= t.maxDepth {
		t.log.Log("Max depth reached", func() []slog.Attr {
			return []slog.Attr{slog.Int("max_depth", t.maxDepth)}
		})
		return
	}

	op := operator.Detect(f.remaining[0], f.node, t.log)
	if op == nil {
		return
	}

	branches := op.Apply(f.remaining[1:], f.node, f.resolved, t.log)
	frames := make([]frame, len(branches))
	for i, b := range branches {
		frames[i] = frame{remaining: b.Remaining, node: b.Node, resolved: b.Resolved, depth: f.depth + 1}
	}
	t.work.PushOrdered(frames...)
}
