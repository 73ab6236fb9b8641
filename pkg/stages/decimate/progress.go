package decimate

// progress turns frame indices into percentages against the reported count.
type progress struct {
	total  int
	report func(percent float64)
}

func newProgress(total int, report func(percent float64)) *progress {
	return &progress{total: total, report: report}
}

// Percent returns i/total*100 clamped to [0, 100]. A zero total yields 0.
func Percent(i, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(i) / float64(total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func (p *progress) frame(i int) {
	if p.report != nil {
		p.report(Percent(i, p.total))
	}
}

func (p *progress) done() {
	if p.report != nil {
		p.report(100)
	}
}
