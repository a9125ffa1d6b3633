package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/robinvdvleuten/cryptofifo/ledger"
	"github.com/robinvdvleuten/cryptofifo/loader"
	"github.com/robinvdvleuten/cryptofifo/logger"
	"github.com/robinvdvleuten/cryptofifo/output"
	"github.com/robinvdvleuten/cryptofifo/report"
	"github.com/robinvdvleuten/cryptofifo/telemetry"
)

// session holds what every command run needs: a context carrying logger, config and
// telemetry, and a way to print the telemetry exactly once.
type session struct {
	ctx    context.Context
	stderr io.Writer

	collector telemetry.Collector
	root      telemetry.Timer
	once      sync.Once
}

// start prepares a command run named after the command and its input. Cancelling parent
// cancels the run.
func (g *Globals) start(parent context.Context, stderr io.Writer, name string) (*session, error) {
	cfg, err := g.ledgerConfig()
	if err != nil {
		return nil, err
	}

	ctx := logger.WithLogger(parent, logger.New(stderr, g.LogLevel))
	ctx = cfg.WithContext(ctx)

	s := &session{ctx: ctx, stderr: stderr}
	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)

		s.root = s.collector.Start(name)
		s.ctx = telemetry.WithRootTimer(s.ctx, s.root)
	}
	return s, nil
}

// reportTelemetry ends the root timer and prints the timing tree. Later calls do nothing.
func (s *session) reportTelemetry() {
	s.once.Do(func() {
		if s.collector != nil {
			s.root.End()
			_, _ = fmt.Fprintln(s.stderr)
			s.collector.Report(s.stderr, output.NewStyles(s.stderr))
		}
	})
}

// pipeline is the outcome of loading, matching and summarizing one input.
type pipeline struct {
	source       []byte
	transactions []ledger.Transaction
	result       *ledger.Result
	report       *report.Report
}

// run loads file and runs it through the ledger and report builder. The returned pipeline
// keeps the source even when loading fails, so errors can be shown in context.
func (g *Globals) run(ctx context.Context, file *FileOrStdin) (*pipeline, error) {
	p := &pipeline{}

	source, err := file.GetSourceContent()
	if err != nil {
		return p, fmt.Errorf("failed to read file for error context: %w", err)
	}
	p.source = source

	p.transactions, err = file.Load(ctx, g.newLoader())
	if err != nil {
		return p, err
	}

	p.result, err = ledger.New().Process(ctx, p.transactions)
	if err != nil {
		return p, err
	}

	p.report = report.Build(ctx, p.result, p.transactions, g.quotes())
	return p, nil
}

// renderLoadError prints errors from run in the terminal style and returns the summary line
// for printError.
func renderLoadError(w io.Writer, err error, source []byte) string {
	renderer := NewErrorRenderer(source)

	var (
		schemaErr *loader.SchemaError
		verrs     *ledger.ValidationErrors
	)
	switch {
	case stdErrors.As(err, &schemaErr):
		_, _ = fmt.Fprintln(w, renderer.Render(schemaErr))
		return "schema error"
	case stdErrors.As(err, &verrs):
		_, _ = fmt.Fprintln(w, renderer.RenderAll(verrs.Errors))
		_, _ = fmt.Fprintln(w)
		return fmt.Sprintf("%d validation error(s) found", len(verrs.Errors))
	default:
		return fmt.Sprintf("something went wrong: %v", err)
	}
}

func inputName(file *FileOrStdin) string {
	return filepath.Base(file.Filename)
}
