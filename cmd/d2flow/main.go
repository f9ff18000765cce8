package main

import (
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/d2flow/d2cli"
)

func main() {
	xmain.Main(d2cli.Run)
}
