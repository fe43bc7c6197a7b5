package annotation

import "fmt"

// Label pools. Lines take the first unused label from A-Z, then overflow
// labels L27, L28, ... Angles take the first unused from the separate
// sequence θ1, θ2, ... A label freed by deletion becomes available again on
// the next pool scan.

func lineLabelAt(n int) string {
	if n <= 26 {
		return string(rune('A' + n - 1))
	}
	return fmt.Sprintf("L%d", n)
}

func (e *Engine) nextLineLabelLocked() string {
	used := make(map[string]bool, len(e.lines))
	for _, l := range e.lines {
		used[l.Label] = true
	}
	for n := 1; ; n++ {
		if label := lineLabelAt(n); !used[label] {
			return label
		}
	}
}

func (e *Engine) nextAngleLabelLocked() string {
	used := make(map[string]bool, len(e.angles))
	for _, a := range e.angles {
		used[a.Label] = true
	}
	for n := 1; ; n++ {
		if label := fmt.Sprintf("θ%d", n); !used[label] {
			return label
		}
	}
}
