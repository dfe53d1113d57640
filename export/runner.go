package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Runner orchestrates export execution: it resolves the definition,
// validates the request, opens the row source, and hands the iterator to
// the renderer for the requested format.
type Runner struct {
	Definitions *DefinitionRegistry
	RowSources  *RowSourceRegistry
	Renderers   *RendererRegistry
	Logger      Logger
	Now         func() time.Time
	IDGenerator func() string
}

// NewRunner creates a runner with default registries and renderers.
func NewRunner() *Runner {
	renderers := NewRendererRegistry()
	_ = renderers.Register(FormatCSV, CSVRenderer{})
	_ = renderers.Register(FormatJSON, JSONRenderer{})
	_ = renderers.Register(FormatNDJSON, JSONRenderer{})
	_ = renderers.Register(FormatXLSX, XLSXRenderer{})

	return &Runner{
		Definitions: NewDefinitionRegistry(),
		RowSources:  NewRowSourceRegistry(),
		Renderers:   renderers,
		Logger:      NopLogger{},
		Now:         time.Now,
		IDGenerator: uuid.NewString,
	}
}

// Run executes an export request. The source is read exactly once and the
// run either writes every selected record or fails before the caller
// publishes anything.
func (r *Runner) Run(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if r == nil {
		return ExportResult{}, AsGoError(NewError(KindInternal, "runner is nil", nil))
	}
	if r.Definitions == nil || r.RowSources == nil || r.Renderers == nil {
		return ExportResult{}, AsGoError(NewError(KindInternal, "runner registries are not configured", nil))
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Logger == nil {
		r.Logger = NopLogger{}
	}
	if r.IDGenerator == nil {
		r.IDGenerator = uuid.NewString
	}

	def, err := r.Definitions.Resolve(req)
	if err != nil {
		return ExportResult{}, AsGoError(err)
	}

	resolved, err := ResolveExport(req, def, r.Now())
	if err != nil {
		return ExportResult{}, AsGoError(err)
	}

	if resolved.Request.Output == nil {
		return ExportResult{}, AsGoError(NewError(KindValidation, "output writer is required", nil))
	}

	exportID := r.IDGenerator()
	started := r.Now()
	r.Logger.Debugf("export %s started definition=%s format=%s columns=%v",
		exportID, resolved.Definition.Name, resolved.Request.Format, resolved.ColumnNames)

	factory, ok := r.RowSources.Resolve(resolved.Definition.RowSourceKey)
	if !ok {
		return ExportResult{}, AsGoError(NewError(KindNotFound,
			fmt.Sprintf("row source %q not registered", resolved.Definition.RowSourceKey), nil))
	}

	source, err := factory(resolved.Request, resolved.Definition)
	if err != nil {
		return ExportResult{}, AsGoError(err)
	}

	iterator, err := source.Open(ctx, RowSourceSpec{
		Definition: resolved.Definition,
		Request:    resolved.Request,
		Columns:    resolved.Columns,
	})
	if err != nil {
		r.Logger.Errorf("export %s failed opening source: %v", exportID, err)
		return ExportResult{}, AsGoError(err)
	}
	defer iterator.Close()

	renderer, ok := r.Renderers.Resolve(resolved.Request.Format)
	if !ok {
		return ExportResult{}, AsGoError(NewError(KindNotFound,
			fmt.Sprintf("renderer %q not registered", resolved.Request.Format), nil))
	}

	stats, err := renderer.Render(ctx, Schema{Columns: resolved.Columns}, iterator, resolved.Request.Output, resolved.Request.RenderOptions)
	if err != nil {
		r.Logger.Errorf("export %s failed after %d rows: %v", exportID, stats.Rows, err)
		return ExportResult{}, AsGoError(err)
	}

	r.Logger.Infof("export %s completed rows=%d bytes=%d duration=%s",
		exportID, stats.Rows, stats.Bytes, r.Now().Sub(started))

	return ExportResult{
		ID:       exportID,
		Format:   resolved.Request.Format,
		Rows:     stats.Rows,
		Bytes:    stats.Bytes,
		Filename: resolved.Filename,
	}, nil
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
