package driver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"seqgen/internal/buildpipeline"
	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/observ"
	"seqgen/internal/render"
	"seqgen/internal/seq"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/trace"
	"seqgen/internal/tree"
)

// DefaultExtension is the template file extension picked up from directories.
const DefaultExtension = ".seq"

// Options control one expansion run.
type Options struct {
	MaxDiagnostics int
	// Jobs limits parallel workers in ExpandPaths; 0 means GOMAXPROCS.
	Jobs int
	// KeepComments keeps template comments in the rendered output.
	KeepComments bool
	// Cache is consulted before lexing and filled after a successful run; nil disables it.
	Cache     *DiskCache
	Progress  buildpipeline.ProgressSink
	Timer     *observ.Timer
	Extension string
}

func (o Options) extension() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return o.Extension
}

// ExpandResult is the outcome for one template.
type ExpandResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag // отсортирован, повторы удалены

	Output     string
	Mode       seq.Mode
	Sections   int
	Iterations int

	// Cached is set when Output came from the disk cache; Tree is nil then.
	Cached bool
	Tree   tree.Stream

	Timings buildpipeline.Timings
}

// OK reports whether the template expanded without errors.
func (r *ExpandResult) OK() bool {
	return r != nil && (r.Bag == nil || !r.Bag.HasErrors())
}

// ExpandFile loads path and runs the whole pipeline over it.
func ExpandFile(ctx context.Context, path string, opts Options) (*source.FileSet, *ExpandResult, error) {
	fs := source.NewFileSet()
	stopLoad := opts.Timer.Start("load")
	fileID, err := fs.Load(path)
	stopLoad("")
	if err != nil {
		return fs, nil, fmt.Errorf("load %s: %w", path, err)
	}
	res := expandLoaded(ctx, fs.Get(fileID), opts)
	return fs, res, ctx.Err()
}

// ExpandSource runs the pipeline over in-memory content registered as a
// virtual file called name.
func ExpandSource(ctx context.Context, name string, src []byte, opts Options) (*source.FileSet, *ExpandResult) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, src)
	return fs, expandLoaded(ctx, fs.Get(fileID), opts)
}

// filePipeline holds per-file state while passes run.
type filePipeline struct {
	opts   Options
	file   *source.File
	tracer trace.Tracer
	span   *trace.Span
	res    *ExpandResult
}

func expandLoaded(ctx context.Context, file *source.File, opts Options) *ExpandResult {
	tracer := trace.FromContext(ctx)
	res := &ExpandResult{
		Path:   file.Path,
		FileID: file.ID,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	fp := &filePipeline{
		opts:   opts,
		file:   file,
		tracer: tracer,
		span:   trace.Begin(tracer, trace.ScopeFile, "file:"+file.Path, trace.ParentID(ctx)),
		res:    res,
	}
	status := fp.run()
	settleDiagnostics(res.Bag)
	fp.span.
		Attr("mode", res.Mode.String()).
		Attr("iterations", strconv.Itoa(res.Iterations)).
		Attr("cached", strconv.FormatBool(res.Cached)).
		End(string(status))
	return res
}

// settleDiagnostics puts b in output order and drops repeated reports of
// the same code at the same span.
func settleDiagnostics(b *diag.Bag) {
	b.Sort()
	b.Dedup()
}

func (fp *filePipeline) run() buildpipeline.Status {
	res := fp.res
	key := cacheKey(fp.file.Hash, fp.opts.KeepComments)
	if fp.lookup(key) {
		fp.emit(buildpipeline.StageCache, buildpipeline.StatusCached, nil, 0)
		return buildpipeline.StatusCached
	}

	reporter := diag.BagReporter{Bag: res.Bag}

	var lexed []token.Token
	fp.pass(buildpipeline.StageLex, func() string {
		lexed = lexer.New(fp.file, lexer.Options{Reporter: reporter}).All()
		return fmt.Sprintf("tokens=%d", len(lexed))
	})
	if res.Bag.HasErrors() {
		return fp.fail(buildpipeline.StageLex)
	}

	var (
		input tree.Stream
		built bool
	)
	fp.pass(buildpipeline.StageTree, func() string {
		input, _, built = tree.Build(lexed, reporter)
		return fmt.Sprintf("nodes=%d", len(input))
	})
	if !built {
		return fp.fail(buildpipeline.StageTree)
	}

	var (
		out      seq.Result
		expanded bool
	)
	fp.pass(buildpipeline.StageExpand, func() string {
		out, expanded = seq.Expand(input, seq.Options{Reporter: reporter})
		if !expanded {
			return "bad header"
		}
		trace.Point(fp.tracer, trace.ScopeNode, "header", fp.span.ID(),
			out.Header.Var+" in "+out.Header.Range.String())
		return fmt.Sprintf("mode=%s sections=%d", out.Mode, out.Sections)
	})
	if !expanded {
		return fp.fail(buildpipeline.StageExpand)
	}
	res.Tree = out.Output
	res.Mode = out.Mode
	res.Sections = out.Sections
	res.Iterations = out.Iterations

	fp.pass(buildpipeline.StageRender, func() string {
		var sb strings.Builder
		// strings.Builder не возвращает ошибок
		_ = render.Write(&sb, out.Output, render.Options{KeepComments: fp.opts.KeepComments})
		res.Output = sb.String()
		return fmt.Sprintf("bytes=%d", len(res.Output))
	})

	fp.store(key)
	fp.emit(buildpipeline.StageRender, buildpipeline.StatusDone, nil, res.Timings.Sum(
		buildpipeline.StageLex, buildpipeline.StageTree, buildpipeline.StageExpand, buildpipeline.StageRender))
	return buildpipeline.StatusDone
}

// pass runs fn as one named stage: a trace span, a timer phase, progress
// events and an entry in the result's Timings.
func (fp *filePipeline) pass(stage buildpipeline.Stage, fn func() string) {
	span := trace.Begin(fp.tracer, trace.ScopePass, string(stage), fp.span.ID())
	stopPhase := fp.opts.Timer.Start(string(stage))
	fp.emit(stage, buildpipeline.StatusWorking, nil, 0)
	started := time.Now()

	note := fn()

	elapsed := time.Since(started)
	stopPhase("")
	span.End(note)
	fp.res.Timings.Add(stage, elapsed)
}

func (fp *filePipeline) fail(stage buildpipeline.Stage) buildpipeline.Status {
	var err error
	if items := fp.res.Bag.Items(); len(items) > 0 {
		err = fmt.Errorf("%s: %s", items[0].Code.ID(), items[0].Message)
	}
	fp.emit(stage, buildpipeline.StatusError, err, fp.res.Timings.Duration(stage))
	return buildpipeline.StatusError
}

func (fp *filePipeline) emit(stage buildpipeline.Stage, status buildpipeline.Status, err error, elapsed time.Duration) {
	buildpipeline.Emit(fp.opts.Progress, buildpipeline.Event{
		File:    fp.file.Path,
		Stage:   stage,
		Status:  status,
		Err:     err,
		Elapsed: elapsed,
	})
}

func (fp *filePipeline) lookup(key Digest) bool {
	if fp.opts.Cache == nil {
		return false
	}
	span := trace.Begin(fp.tracer, trace.ScopePass, string(buildpipeline.StageCache), fp.span.ID())
	var payload DiskPayload
	hit, err := fp.opts.Cache.Get(key, &payload)
	switch {
	case err != nil:
		// Битая запись считается промахом; следующий Put её перезапишет.
		span.Attr("error", err.Error()).End("miss")
		return false
	case !hit:
		span.End("miss")
		return false
	}
	span.End("hit")
	fp.res.Cached = true
	fp.res.Output = payload.Output
	fp.res.Mode = seq.Mode(payload.Mode)
	fp.res.Sections = payload.Sections
	fp.res.Iterations = payload.Iterations
	return true
}

func (fp *filePipeline) store(key Digest) {
	if fp.opts.Cache == nil {
		return
	}
	span := trace.Begin(fp.tracer, trace.ScopePass, string(buildpipeline.StageCache), fp.span.ID())
	started := time.Now()
	err := fp.opts.Cache.Put(key, &DiskPayload{
		Path:       fp.file.Path,
		Output:     fp.res.Output,
		Mode:       uint8(fp.res.Mode),
		Sections:   fp.res.Sections,
		Iterations: fp.res.Iterations,
	})
	fp.res.Timings.Add(buildpipeline.StageCache, time.Since(started))
	if err != nil {
		span.Attr("error", err.Error()).End("store failed")
		return
	}
	span.End("stored")
}
