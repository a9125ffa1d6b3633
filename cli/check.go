package cli

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cryptofifo/errors"
	"github.com/robinvdvleuten/cryptofifo/ledger"
)

type CheckCmd struct {
	File   FileOrStdin `help:"Trade export, .csv or .xlsx (use '-' for CSV on stdin, or omit for stdin)." arg:"" optional:""`
	Format string      `help:"Output format for problems." enum:"text,json" default:"text"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.start(context.Background(), ctx.Stderr, fmt.Sprintf("check %s", inputName(&cmd.File)))
	if err != nil {
		return err
	}
	defer s.reportTelemetry()

	p, err := globals.run(s.ctx, &cmd.File)
	if err != nil {
		if cmd.Format == "json" {
			_, _ = fmt.Fprintln(ctx.Stdout, errors.NewJSONFormatter().FormatAll(flatten(err)))
			return NewCommandError(exitProblems)
		}
		printError(ctx.Stderr, renderLoadError(ctx.Stderr, err, p.source))
		return NewCommandError(exitProblems)
	}

	problems := p.result.Errors()

	if cmd.Format == "json" {
		_, _ = fmt.Fprintln(ctx.Stdout, errors.NewJSONFormatter().FormatAll(problems))
		if len(problems) > 0 {
			return NewCommandError(exitProblems)
		}
		return nil
	}

	for _, w := range p.result.Warnings {
		printWarning(ctx.Stderr, w.Error())
	}

	if len(problems) > 0 {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer(nil).RenderAll(problems))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d sell(s) could not be matched", len(problems)))
		return NewCommandError(exitProblems)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d transaction(s), %d sell(s) matched",
		len(p.transactions), len(p.result.Disposals())))
	return nil
}

// flatten expands aggregated validation errors so each is reported on its own.
func flatten(err error) []error {
	var verrs *ledger.ValidationErrors
	if stdErrors.As(err, &verrs) {
		return verrs.Errors
	}
	return []error{err}
}
