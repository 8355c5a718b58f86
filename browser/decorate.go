package browser

import (
	"github.com/samber/lo"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/skip"
	"github.com/sbskip/sbskip/style"
)

type notification struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Color    string `json:"color"`
	Duration int64  `json:"duration"`
}

type pill struct {
	Title string `json:"title"`
	Color string `json:"color"`
}

type badge struct {
	Label    string `json:"label"`
	Pills    []pill `json:"pills"`
	Selector string `json:"selector"`
}

func (p *Page) notificationFor(s segment.Segment) notification {
	return notification{
		Title:    skip.Message(s),
		Detail:   skip.Span(s),
		Color:    string(style.CategoryColor(s.Category)),
		Duration: p.opts.NotifyDuration.Milliseconds(),
	}
}

func badgeFor(segments []segment.Segment) badge {
	return badge{
		Label:    skip.Badge(segments),
		Selector: playerWrapSelector,
		Pills: lo.Map(segments, func(s segment.Segment, _ int) pill {
			return pill{
				Title: s.Category.Title() + " " + skip.Span(s),
				Color: string(style.CategoryColor(s.Category)),
			}
		}),
	}
}

// ShowSkip shows the skip notification on the page.
func (p *Page) ShowSkip(s segment.Segment) {
	if _, err := p.page.Eval(notifyScript, p.notificationFor(s)); err != nil {
		logger.Warnf("show skip notification: %v", err)
	}
}

// ShowBadge shows the segment badge on the page.
func (p *Page) ShowBadge(segments []segment.Segment) {
	if _, err := p.page.Eval(badgeScript, badgeFor(segments)); err != nil {
		logger.Warnf("show badge: %v", err)
	}
}
