package schedule

import "time"

// Resolution is the result of locating "now" within a time layout. Any of the
// three items may be nil: no current item means a gap, after school, or an
// empty layout; no next item means nothing of that kind remains today.
type Resolution struct {
	Current   *TimeLayoutItem
	NextClass *TimeLayoutItem
	NextBreak *TimeLayoutItem
}

// timed reports whether the item participates in interval resolution.
// Action items are side-effect hooks and never become the current item.
func (it *TimeLayoutItem) timed() bool {
	switch it.Kind {
	case KindClass, KindBreak, KindSeparator:
		return true
	}
	return false
}

// Resolve finds the item containing now and the next class and break items.
//
// The scan is linear; layouts are small. The current item is the first timed
// item whose [Start, End] interval contains now inclusive. Next items are
// scanned from the top of the list, not from the current item, so a "now"
// inside a separator still finds the following class. Items sharing a start
// resolve in list order.
func (l *TimeLayout) Resolve(now time.Time) Resolution {
	tod := TimeOfDayFrom(now)
	var res Resolution

	for i := range l.Items {
		it := &l.Items[i]
		if !it.timed() {
			continue
		}
		if res.Current == nil && it.Start <= tod && tod <= it.End {
			res.Current = it
		}
		if res.NextClass == nil && it.Kind == KindClass && it.Start >= tod {
			res.NextClass = it
		}
		if res.NextBreak == nil && it.Kind == KindBreak && it.Start >= tod {
			res.NextBreak = it
		}
	}
	return res
}

// ClassIndexOf maps a layout item to its position among class-kind items
// only, in list order. Returns -1 if the item is not a class-kind item of
// this layout. The mapping is a bijection between class items and 0..N-1.
func (l *TimeLayout) ClassIndexOf(item *TimeLayoutItem) int {
	if item == nil || item.Kind != KindClass {
		return -1
	}
	idx := 0
	for i := range l.Items {
		if l.Items[i].Kind != KindClass {
			continue
		}
		if &l.Items[i] == item {
			return idx
		}
		idx++
	}
	return -1
}

// ClassCount returns the number of class-kind items in the layout.
func (l *TimeLayout) ClassCount() int {
	n := 0
	for i := range l.Items {
		if l.Items[i].Kind == KindClass {
			n++
		}
	}
	return n
}
