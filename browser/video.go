package browser

import (
	"github.com/go-rod/rod"
)

// video is a handle on a <video> element. Handles of the same element are
// distinct values; the element's dataset carries the binding mark.
type video struct {
	page *Page
	el   *rod.Element
}

func (v *video) eval(js string, params ...any) (bool, error) {
	res, err := v.el.Eval(js, params...)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (v *video) Attached() bool {
	ok, err := v.eval(attachedScript)
	return err == nil && ok
}

func (v *video) Marked() bool {
	ok, err := v.eval(markedScript)
	return err == nil && ok
}

func (v *video) Mark() {
	if _, err := v.eval(markScript); err != nil {
		logger.Debugf("mark video: %v", err)
	}
}

func (v *video) Unmark() {
	if _, err := v.eval(unmarkScript); err != nil {
		logger.Debugf("unmark video: %v", err)
	}
}

func (v *video) CurrentTime() (float64, error) {
	res, err := v.el.Eval(timeScript)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

func (v *video) Seek(seconds float64) error {
	_, err := v.el.Eval(seekScript, seconds)
	return err
}

func (v *video) OnTimeUpdate(handler func(float64)) func() {
	token := v.page.subscribe(handler)
	if _, err := v.el.Eval(subscribeScript, timeBinding, token); err != nil {
		logger.Warnf("subscribe to timeupdate: %v", err)
	}

	return func() {
		v.page.unsubscribe(token)
		_, _ = v.el.Eval(unsubscribeScript, token)
	}
}
