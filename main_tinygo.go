//go:build tinygo

package main

import (
	"asios/app"
	"asios/hal"
	"asios/internal/buildinfo"
	"asios/kernel"
)

func main() {
	h := hal.New()
	h.Logger().WriteLineString(buildinfo.Banner(kernel.ABIVersion))
	app.Run(h, app.Config{Demo: "all"})
}
