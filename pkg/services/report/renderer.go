package report

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Publisher stores a finished document and returns where it went.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte) (string, error)
}

type Options struct {
	Letterhead    Letterhead
	SettleDelay   time.Duration
	Width         int
	Scale         float64
	Geometry      PageGeometry
	OnStateChange func(target string, state State)
}

func DefaultOptions() Options {
	return Options{
		Letterhead:  DefaultLetterhead(),
		SettleDelay: 500 * time.Millisecond,
		Width:       ContainerWidth,
		Scale:       2,
		Geometry:    A4,
	}
}

type ExportRequest struct {
	Target   string
	FileName string
}

type ExportResult struct {
	Target   string
	FileName string
	Location string
	Pages    int
	Aborted  bool
}

type exportJob struct {
	state    State
	snapshot *ExportSnapshot
	cancel   context.CancelFunc
}

// Renderer turns report sections into paged documents. Each target runs its
// own state machine; a target accepts one export at a time.
type Renderer struct {
	rasterizer Rasterizer
	writer     DocumentWriter
	publisher  Publisher
	opts       Options

	mu   sync.Mutex
	jobs map[string]*exportJob
}

func NewRenderer(rasterizer Rasterizer, writer DocumentWriter, publisher Publisher, opts Options) *Renderer {
	return &Renderer{
		rasterizer: rasterizer,
		writer:     writer,
		publisher:  publisher,
		opts:       opts,
		jobs:       make(map[string]*exportJob),
	}
}

// State reports where the export of target currently is.
func (r *Renderer) State(target string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[target]; ok {
		return job.state
	}
	return StateIdle
}

// Cancel releases the snapshot of an in flight export so it stops at its
// next step. It reports whether anything was running.
func (r *Renderer) Cancel(target string) bool {
	r.mu.Lock()
	job, ok := r.jobs[target]
	var snapshot *ExportSnapshot
	var cancel context.CancelFunc
	if ok {
		snapshot, cancel = job.snapshot, job.cancel
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	if snapshot != nil {
		snapshot.Release()
	}
	if cancel != nil {
		cancel()
	}
	return true
}

func (r *Renderer) Export(ctx context.Context, page *html.Node, req ExportRequest) (*ExportResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !r.begin(req.Target, cancel) {
		return nil, ErrExportInProgress
	}
	defer r.finish(req.Target)

	logger := zerolog.Ctx(ctx).With().Str("target", req.Target).Logger()
	result := &ExportResult{Target: req.Target, FileName: FileName(req)}

	r.transition(req.Target, StateCapturing)
	snapshot, err := NewSnapshot(page, req.Target, r.opts.Letterhead)
	if err != nil {
		return nil, r.fail(&logger, req.Target, StateCapturing, err)
	}
	defer snapshot.Release()
	r.attach(req.Target, snapshot)

	r.transition(req.Target, StateRendering)
	if !r.settle(ctx) || snapshot.Released() {
		return r.abort(&logger, result, StateRendering), nil
	}
	markup, err := snapshot.HTML()
	if errors.Is(err, ErrSnapshotReleased) {
		return r.abort(&logger, result, StateRendering), nil
	}
	if err != nil {
		return nil, r.fail(&logger, req.Target, StateRendering, err)
	}
	raster, err := r.rasterizer.Rasterize(ctx, markup, RasterOptions{Width: r.opts.Width, Scale: r.opts.Scale})
	if ctx.Err() != nil || snapshot.Released() {
		return r.abort(&logger, result, StateRendering), nil
	}
	if err != nil {
		return nil, r.fail(&logger, req.Target, StateRendering, err)
	}
	logger.Debug().Int("width", raster.Width).Int("height", raster.Height).Msg("rasterized snapshot")

	r.transition(req.Target, StatePaginating)
	layout := Paginate(raster.Size(), r.opts.Geometry)
	if len(layout.Pages) == 0 {
		return nil, r.fail(&logger, req.Target, StatePaginating, errors.New("empty raster"))
	}
	doc, err := r.writer.Write(ctx, raster, layout)
	if ctx.Err() != nil || snapshot.Released() {
		return r.abort(&logger, result, StatePaginating), nil
	}
	if err != nil {
		return nil, r.fail(&logger, req.Target, StatePaginating, err)
	}
	// a published document counts as saved even if cancelled meanwhile
	location, err := r.publisher.Publish(ctx, result.FileName, doc)
	if err != nil && ctx.Err() != nil {
		return r.abort(&logger, result, StatePaginating), nil
	}
	if err != nil {
		return nil, r.fail(&logger, req.Target, StatePaginating, err)
	}

	result.Location = location
	result.Pages = len(layout.Pages)
	r.transition(req.Target, StateSaved)
	logger.Info().
		Str("file", result.FileName).
		Str("location", location).
		Int("pages", result.Pages).
		Msg("exported report section")
	return result, nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// FileName is the published document name for req.
func FileName(req ExportRequest) string {
	base := req.FileName
	if base == "" {
		base = req.Target
	}
	if base == "" {
		base = "export"
	}
	return unsafeNameChars.ReplaceAllString(base, "_") + ".pdf"
}

func (r *Renderer) begin(target string, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.jobs[target]; busy {
		return false
	}
	r.jobs[target] = &exportJob{state: StateIdle, cancel: cancel}
	return true
}

func (r *Renderer) attach(target string, snapshot *ExportSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[target]; ok {
		job.snapshot = snapshot
	}
}

func (r *Renderer) transition(target string, state State) {
	r.mu.Lock()
	if job, ok := r.jobs[target]; ok {
		job.state = state
	}
	r.mu.Unlock()
	if r.opts.OnStateChange != nil {
		r.opts.OnStateChange(target, state)
	}
}

func (r *Renderer) finish(target string) {
	r.mu.Lock()
	delete(r.jobs, target)
	r.mu.Unlock()
	if r.opts.OnStateChange != nil {
		r.opts.OnStateChange(target, StateIdle)
	}
}

func (r *Renderer) settle(ctx context.Context) bool {
	if r.opts.SettleDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(r.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (r *Renderer) fail(logger *zerolog.Logger, target string, stage State, err error) error {
	r.transition(target, StateFailed)
	logger.Error().Err(err).Str("stage", stage.String()).Msg("report export failed")
	return &ExportError{Target: target, State: stage, Err: err}
}

func (r *Renderer) abort(logger *zerolog.Logger, result *ExportResult, stage State) *ExportResult {
	logger.Debug().Str("stage", stage.String()).Msg("report export aborted")
	result.Aborted = true
	return result
}
