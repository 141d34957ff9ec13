package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/applyscript"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	"github.com/pseudomuto/sqlsrv/pkg/config"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/pseudomuto/sqlsrv/pkg/drift"
	"github.com/pseudomuto/sqlsrv/pkg/format"
	"github.com/pseudomuto/sqlsrv/pkg/objectdiff"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/pseudomuto/sqlsrv/pkg/sqlserver"
	"github.com/pseudomuto/sqlsrv/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type (
	// Options holds everything a single compare run needs.
	Options struct {
		// ConfigPath is an explicit config file (--config).
		ConfigPath string
		// Profile is the global --profile, used for the source when Source is empty.
		Profile string

		Source           string
		Target           string
		SourceConnection string
		TargetConnection string

		// Schemas is the raw comma separated --schemas value.
		Schemas string

		IgnoreWhitespace bool
		StripComments    bool

		// Output selection for the summary.
		Compact  bool
		Pretty   bool
		JSON     bool
		Markdown bool

		// Snapshots prints both captured snapshots as JSON instead of a summary.
		Snapshots bool

		ApplyScript  bool
		ApplyPath    string
		IncludeDrops bool

		Object string
		// Context is the --object diff context radius. Negative selects the default.
		Context int
	}

	// Runner executes compare runs. The zero value is not usable; see NewRunner.
	Runner struct {
		Loader  *config.Loader
		Fetcher sqlserver.Fetcher
		Out     io.Writer

		// NewWriter builds the apply script writer for a path.
		NewWriter func(path string) applyscript.Writer
	}
)

// NewRunner returns a Runner writing to stdout and apply scripts to disk.
func NewRunner(loader *config.Loader, fetcher sqlserver.Fetcher) *Runner {
	r := &Runner{
		Loader:  loader,
		Fetcher: fetcher,
		Out:     os.Stdout,
	}

	r.NewWriter = func(path string) applyscript.Writer {
		w := applyscript.NewFileWriter(path)
		w.Stdout = r.Out
		return w
	}
	return r
}

// Run compares two servers using the process environment, the real catalog
// fetcher and stdout.
//
// Example:
//
//	code, err := compare.Run(ctx, compare.Options{
//		Source: "staging",
//		Target: "prod",
//		IgnoreWhitespace: true,
//	})
//	if err != nil {
//		slog.Error("compare failed", "err", err)
//		os.Exit(consts.ExitFailure)
//	}
//	os.Exit(code)
func Run(ctx context.Context, opts Options) (int, error) {
	return NewRunner(config.NewLoader(), sqlserver.NewFetcher()).Run(ctx, opts)
}

// Run resolves both sides, fetches their snapshots concurrently and then performs
// exactly one of: a single-object diff, apply script generation, a snapshot dump
// or a drift summary.
//
// The returned code is consts.ExitOK, consts.ExitDrift or consts.ExitNotFound.
// When err is non-nil the code is consts.ExitFailure and nothing has been written.
func (r *Runner) Run(ctx context.Context, opts Options) (int, error) {
	source, target, err := r.resolve(opts)
	if err != nil {
		return consts.ExitFailure, err
	}

	schemas := ResolveSchemas(opts.Schemas, source, target)
	slog.Debug("Comparing",
		"source", source.Profile,
		"target", target.Profile,
		"schemas", strings.Join(schemas, ","),
	)

	srcSnap, tgtSnap, err := r.fetch(ctx, source, target, schemas)
	if err != nil {
		return consts.ExitFailure, err
	}

	dopts := drift.Options{
		IgnoreWhitespace: opts.IgnoreWhitespace,
		StripComments:    opts.StripComments,
	}

	switch {
	case opts.Object != "":
		return r.objectDiff(srcSnap, tgtSnap, opts, dopts)
	case opts.ApplyScript:
		return r.applyScript(srcSnap, tgtSnap, opts, dopts)
	case opts.Snapshots:
		return r.dumpSnapshots(srcSnap, tgtSnap, opts)
	default:
		return r.summary(srcSnap, tgtSnap, opts, dopts)
	}
}

func (r *Runner) resolve(opts Options) (config.Connection, config.Connection, error) {
	if strings.TrimSpace(opts.Target) == "" {
		return config.Connection{}, config.Connection{}, apperr.New(apperr.Config, "a target profile is required (--target)")
	}

	cfg, err := r.Loader.Load(opts.ConfigPath)
	if err != nil {
		return config.Connection{}, config.Connection{}, err
	}

	sourceName := opts.Source
	if sourceName == "" {
		sourceName = cfg.ProfileName(opts.Profile, r.Loader.Env)
	}

	source, err := resolveEndpoint(cfg, r.Loader.Env, sourceName, opts.SourceConnection)
	if err != nil {
		return config.Connection{}, config.Connection{}, errors.Wrap(err, "source")
	}

	target, err := resolveEndpoint(cfg, r.Loader.Env, opts.Target, opts.TargetConnection)
	if err != nil {
		return config.Connection{}, config.Connection{}, errors.Wrap(err, "target")
	}

	return source, target, nil
}

func resolveEndpoint(cfg *config.Config, env config.Env, profile, override string) (config.Connection, error) {
	conn, err := cfg.Resolve(profile, env)
	if err != nil || override == "" {
		return conn, err
	}
	return conn.WithOverride(override)
}

// fetch captures both snapshots concurrently. The first failure cancels the other fetch.
func (r *Runner) fetch(ctx context.Context, source, target config.Connection, schemas []string) (*snapshot.Snapshot, *snapshot.Snapshot, error) {
	var srcSnap, tgtSnap *snapshot.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := r.Fetcher.Fetch(gctx, source.Profile, source, schemas)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch source %s", source.Profile)
		}
		srcSnap = snap
		return nil
	})
	g.Go(func() error {
		snap, err := r.Fetcher.Fetch(gctx, target.Profile, target, schemas)
		if err != nil {
			return errors.Wrapf(err, "failed to fetch target %s", target.Profile)
		}
		tgtSnap = snap
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return srcSnap, tgtSnap, nil
}

func (r *Runner) objectDiff(source, target *snapshot.Snapshot, opts Options, dopts drift.Options) (int, error) {
	res, err := objectdiff.Diff(source, target, opts.Object, objectdiff.Options{
		Options: dopts,
		Context: opts.Context,
	})
	if err != nil {
		return consts.ExitFailure, err
	}

	if _, err := res.WriteTo(r.Out); err != nil {
		return consts.ExitFailure, apperr.Wrap(apperr.IO, err, "failed to write object diff")
	}
	return res.Status.ExitCode(), nil
}

func (r *Runner) applyScript(source, target *snapshot.Snapshot, opts Options, dopts drift.Options) (int, error) {
	summary := drift.Summarize(target, source, dopts)
	script := applyscript.Render(summary, source, target, opts.IncludeDrops)

	path, err := r.NewWriter(opts.ApplyPath).Write(script)
	if err != nil {
		return consts.ExitFailure, err
	}

	if path != consts.StdoutPath {
		fmt.Fprintf(r.Out, "Wrote apply script to %s\n", path)
	}
	return consts.ExitOK, nil
}

func (r *Runner) dumpSnapshots(source, target *snapshot.Snapshot, opts Options) (int, error) {
	enc := json.NewEncoder(r.Out)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}

	payload := struct {
		Source *snapshot.Snapshot `json:"source"`
		Target *snapshot.Snapshot `json:"target"`
	}{source, target}

	if err := enc.Encode(payload); err != nil {
		return consts.ExitFailure, apperr.Wrap(apperr.IO, err, "failed to write snapshots")
	}
	return consts.ExitOK, nil
}

func (r *Runner) summary(source, target *snapshot.Snapshot, opts Options, dopts drift.Options) (int, error) {
	summary := drift.Summarize(target, source, dopts)

	err := format.Summary(r.Out, format.FormatterOptions{
		Style:  Style(opts),
		Pretty: opts.Pretty,
		Source: source.Name,
		Target: target.Name,
	}, summary)
	if err != nil {
		return consts.ExitFailure, apperr.Wrap(apperr.IO, err, "")
	}

	if summary.HasDrift() {
		return consts.ExitDrift, nil
	}
	return consts.ExitOK, nil
}

// Style picks the summary layout from the output flags: --json wins, then
// --markdown, then --compact, falling back to the counts table.
func Style(opts Options) format.Style {
	switch {
	case opts.JSON:
		return format.StyleJSON
	case opts.Markdown:
		return format.StyleMarkdown
	case opts.Compact:
		return format.StyleCompact
	default:
		return format.StyleTable
	}
}

// ResolveSchemas picks the schemas to snapshot: a non-empty override list, then the
// source profile's defaults, then the target's, then consts.DefaultSchemas.
func ResolveSchemas(override string, source, target config.Connection) []string {
	if schemas := utils.SplitList(override); len(schemas) > 0 {
		return schemas
	}
	if len(source.DefaultSchemas) > 0 {
		return source.DefaultSchemas
	}
	if len(target.DefaultSchemas) > 0 {
		return target.DefaultSchemas
	}
	return consts.DefaultSchemas()
}
