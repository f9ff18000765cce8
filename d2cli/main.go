package d2cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xjson"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/d2flow/d2config"
	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/d2viewport"
	"oss.terrastruct.com/d2flow/lib/go2"
	"oss.terrastruct.com/d2flow/lib/log"
	"oss.terrastruct.com/d2flow/lib/version"
)

// fitMargin is the screen margin kept around the diagram when zooming to fit.
const fitMargin = 20.

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.Stderr(ctx)
	defer log.Sync(ctx)
	configFlag := ms.Opts.String("D2FLOW_CONFIG", "config", "c", "", "path to a .yaml, .yml or .toml options file")
	nodesFlag, err := ms.Opts.Int64("D2FLOW_NODES", "nodes", "n", 16, "number of nodes in the generated diagram. They are laid out on a grid and linked to their right and bottom neighbors")
	if err != nil {
		return err
	}
	routerFlag := ms.Opts.String("D2FLOW_ROUTER", "router", "r", "", fmt.Sprintf("router used for links, one of %s. Overrides the options file", strings.Join(d2routing.Names(), ", ")))
	pathGeneratorFlag := ms.Opts.String("D2FLOW_PATH_GENERATOR", "path-generator", "g", "", fmt.Sprintf("path generator used for links, one of %s. Overrides the options file", strings.Join(d2paths.Names(), ", ")))
	viewWidthFlag, err := ms.Opts.Int64("", "view-width", "", 1280, "width of the screen area in pixels")
	if err != nil {
		return err
	}
	viewHeightFlag, err := ms.Opts.Int64("", "view-height", "", 720, "height of the screen area in pixels")
	if err != nil {
		return err
	}
	zoomFlag, err := ms.Opts.Float64("", "zoom", "z", 0, "zoom level. 0 zooms to fit the whole diagram in the screen area")
	if err != nil {
		return err
	}
	selectFlag := ms.Opts.String("", "select", "", "", "comma separated IDs to select before reporting")
	deleteFlag := ms.Opts.String("", "delete", "", "", "comma separated IDs to delete before reporting. Deleting a node deletes its links")
	printConfigFlag, err := ms.Opts.Bool("", "print-config", "", false, "print the effective options and exit. TOML when --config is a .toml file, YAML otherwise")
	if err != nil {
		return err
	}
	metricsFlag, err := ms.Opts.Bool("D2FLOW_METRICS", "metrics", "m", false, "write Prometheus metrics to stderr when done")
	if err != nil {
		return err
	}
	watchFlag, err := ms.Opts.Bool("D2FLOW_WATCH", "watch", "w", false, "watch the options file and rerun on every change")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		ms.Log.Warn.Printf("Invalid DEBUG flag value ignored")
		debugFlag = go2.Pointer(false)
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if len(ms.Opts.Flags.Args()) > 0 && ms.Opts.Flags.Arg(0) == "version" {
		if len(ms.Opts.Flags.Args()) > 1 {
			return xmain.UsageErrorf("version subcommand accepts no arguments")
		}
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if *versionFlag {
		fmt.Fprintln(ms.Stdout, version.Version)
		return nil
	}
	if len(ms.Opts.Flags.Args()) > 1 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}

	if *nodesFlag < 0 {
		return xmain.UsageErrorf("-n[odes] must not be negative, got %d", *nodesFlag)
	}
	if *viewWidthFlag <= 0 || *viewHeightFlag <= 0 {
		return xmain.UsageErrorf("--view-width and --view-height must be positive, got %dx%d", *viewWidthFlag, *viewHeightFlag)
	}
	if *zoomFlag < 0 {
		return xmain.UsageErrorf("-z[oom] must not be negative, got %v", *zoomFlag)
	}

	ro := runOpts{
		configPath:    *configFlag,
		nodes:         int(*nodesFlag),
		router:        *routerFlag,
		pathGenerator: *pathGeneratorFlag,
		viewWidth:     float64(*viewWidthFlag),
		viewHeight:    float64(*viewHeightFlag),
		zoom:          *zoomFlag,
		selected:      splitIDs(*selectFlag),
		deleted:       splitIDs(*deleteFlag),
		outputPath:    "-",
		metrics:       *metricsFlag,
	}
	if ro.configPath != "" {
		ro.configPath = ms.AbsPath(ro.configPath)
	}
	if len(ms.Opts.Flags.Args()) == 1 && ms.Opts.Flags.Arg(0) != "-" {
		ro.outputPath = ms.AbsPath(ms.Opts.Flags.Arg(0))
	}

	if *printConfigFlag {
		return printConfig(ms, ro)
	}

	if *watchFlag {
		if ro.configPath == "" {
			return xmain.UsageErrorf("-w[atch] requires -c[onfig]")
		}
		if ro.outputPath == "-" {
			return xmain.UsageErrorf("-w[atch] requires an output path")
		}
		w, err := newWatcher(ctx, ms, ro)
		if err != nil {
			return err
		}
		return w.run()
	}

	return run(ctx, ms, ro)
}

type runOpts struct {
	configPath    string
	nodes         int
	router        string
	pathGenerator string
	viewWidth     float64
	viewHeight    float64
	zoom          float64
	selected      []string
	deleted       []string
	outputPath    string
	metrics       bool
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// loadOptions reads the options file, if any, and applies the flag overrides.
func loadOptions(ro runOpts) (*d2diagram.Options, error) {
	opts := d2diagram.DefaultOptions()
	if ro.configPath != "" {
		var err error
		opts, err = d2config.Load(ro.configPath)
		if err != nil {
			return nil, err
		}
	}
	if ro.router != "" {
		r, err := d2routing.Lookup(ro.router)
		if err != nil {
			return nil, xmain.UsageErrorf("%v", err)
		}
		opts.Links.DefaultRouter = r
	}
	if ro.pathGenerator != "" {
		g, err := d2paths.Lookup(ro.pathGenerator)
		if err != nil {
			return nil, xmain.UsageErrorf("%v", err)
		}
		opts.Links.DefaultPathGenerator = g
	}
	return opts, nil
}

func printConfig(ms *xmain.State, ro runOpts) error {
	opts, err := loadOptions(ro)
	if err != nil {
		return err
	}
	format := d2config.YAML
	if strings.EqualFold(filepath.Ext(ro.configPath), ".toml") {
		format = d2config.TOML
	}
	b, err := d2config.FromOptions(opts).Marshal(format)
	if err != nil {
		return err
	}
	_, err = ms.Stdout.Write(b)
	return err
}

func run(ctx context.Context, ms *xmain.State, ro runOpts) error {
	opts, err := loadOptions(ro)
	if err != nil {
		return err
	}
	d, err := generate(ctx, opts, ro.nodes)
	if err != nil {
		return err
	}
	defer d.Close()
	c := d2viewport.NewCuller(d, nil)
	defer c.Close()

	for _, id := range ro.deleted {
		ok, err := d.RequestDelete(ctx, id)
		if err != nil {
			return xmain.UsageErrorf("%v", err)
		}
		if !ok {
			ms.Log.Warn.Printf("deletion of %q was rejected", id)
		}
	}
	for i, id := range ro.selected {
		if !d.Select(id, i > 0) {
			ms.Log.Warn.Printf("could not select %q", id)
		}
	}

	if ro.zoom == 0 {
		d.ZoomToFit(ro.viewWidth, ro.viewHeight, fitMargin)
	} else {
		d.SetZoom(ro.zoom)
	}

	rep, err := newReport(d, c, ro.viewWidth, ro.viewHeight)
	if err != nil {
		return err
	}
	b := xjson.Marshal(rep)
	if ro.outputPath == "-" {
		_, err = ms.Stdout.Write(b)
	} else {
		err = ms.WritePath(ro.outputPath, b)
		if err == nil {
			ms.Log.Success.Printf("successfully wrote %s with %d visible entities", ms.HumanPath(ro.outputPath), len(rep.Visible))
		}
	}
	if err != nil {
		return err
	}

	if ro.metrics {
		return writeMetrics(ms.Stderr)
	}
	return nil
}
