package main

import (
	"github.com/samber/lo"
	"github.com/sbskip/sbskip/cmd"
	"github.com/sbskip/sbskip/config"
	"github.com/sbskip/sbskip/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}
