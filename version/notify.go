package version

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sbskip/sbskip/color"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/icon"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/style"
	"github.com/sbskip/sbskip/util"
	"github.com/spf13/viper"
)

const checkTimeout = 5 * time.Second

// Notify prints an alert to w when a newer release than the running build exists.
func Notify(w io.Writer) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if newer, err := Compare(version, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Fprintf(w, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+version),
	)
}
