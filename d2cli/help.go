package d2cli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/d2flow/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--config=file.yaml] [--nodes=16] [--zoom=0] [report.json]
  %[1]s --print-config [--config=file.toml]
  %[1]s version

%[1]s generates a grid diagram, routes its links, culls it against the screen
area and writes the visible geometry as JSON to report.json.
It writes to stdout if an output path is not provided or is -.

With --watch, the options file is watched and the report rewritten on every change.

Flags:
%[3]s
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
