package ans

import "github.com/sirupsen/logrus"

// controlOutcome classifies how a control-point write was handled.
// State-preserving outcomes are deliberately distinguishable: an
// unsupported category and a supported-but-already-disabled one are both
// no-ops, but not the same no-op.
type controlOutcome int

const (
	ctrlMalformed controlOutcome = iota
	ctrlCleared
	ctrlApplied     // enable/disable changed the enabled mask
	ctrlNoChange    // category supported, enabled mask already as requested
	ctrlUnsupported // category not in the relevant supported mask
	ctrlNotified    // notify-now pushed at least one notification
	ctrlNotEnabled  // notify-now targeted a category that is not enabled
)

// handleControlPoint decodes and applies one control-point write.
//
// A 1-byte payload clears every category counter. A 2-byte payload is
// (command, category), category 0xFF addressing all categories. Any other
// length, unknown command, or undefined category is rejected with no
// state change. No payload, however malformed, escapes as an error.
func (s *Service) handleControlPoint(data []byte) controlOutcome {
	switch len(data) {
	case 1:
		s.clearCounters(AllCategories)
		s.log.Info("ans: control point cleared all category counters")
		return ctrlCleared
	case 2:
	default:
		s.log.WithField("len", len(data)).Warn("ans: control point payload must be 1 or 2 bytes")
		return ctrlMalformed
	}

	cmd, cat := Command(data[0]), CategoryID(data[1])
	if !cat.Valid() {
		s.log.WithField("category", uint8(cat)).Warn("ans: control point names undefined category")
		return ctrlMalformed
	}
	mask := MaskForCategory(cat)
	log := s.log.WithFields(logrus.Fields{
		"command":  cmd.String(),
		"category": cat.String(),
	})

	var out controlOutcome
	switch cmd {
	case CmdEnableNewAlert:
		out = enable(&s.enabledNew, s.supportedNew, mask)
	case CmdEnableUnreadAlert:
		out = enable(&s.enabledUnread, s.supportedUnread, mask)
	case CmdDisableNewAlert:
		out = disable(&s.enabledNew, s.supportedNew, mask)
	case CmdDisableUnreadAlert:
		out = disable(&s.enabledUnread, s.supportedUnread, mask)
	case CmdNotifyNewAlertNow:
		out = s.notifyNewNow(cat, mask)
	case CmdNotifyUnreadAlertNow:
		out = s.notifyUnreadNow(cat, mask)
	default:
		log.Warn("ans: unknown control point command")
		return ctrlMalformed
	}

	switch out {
	case ctrlUnsupported:
		log.Info("ans: category not supported")
	case ctrlNotEnabled:
		log.Info("ans: category not enabled")
	default:
		log.Debug("ans: control point command applied")
	}
	return out
}

// enable ORs mask into the enabled set if it intersects the supported
// set; an unsupported category must not mutate the enabled set.
func enable(enabled *CategoryMask, supported, mask CategoryMask) controlOutcome {
	if supported&mask == 0 {
		return ctrlUnsupported
	}
	prev := *enabled
	*enabled |= mask
	if *enabled == prev {
		return ctrlNoChange
	}
	return ctrlApplied
}

// disable clears mask from the enabled set, only for supported categories.
func disable(enabled *CategoryMask, supported, mask CategoryMask) controlOutcome {
	if supported&mask == 0 {
		return ctrlUnsupported
	}
	prev := *enabled
	*enabled &^= mask
	if *enabled == prev {
		return ctrlNoChange
	}
	return ctrlApplied
}

// notifyNewNow pushes the current New Alert count for the category if it
// is enabled. AllCategories fans out to every enabled category.
func (s *Service) notifyNewNow(cat CategoryID, mask CategoryMask) controlOutcome {
	if cat == AllCategories {
		pushed := 0
		for c := CategoryID(0); c < CategoryCount; c++ {
			if s.enabledNew.Has(c) {
				s.notifyNew(c)
				pushed++
			}
		}
		if pushed == 0 {
			return ctrlNotEnabled
		}
		return ctrlNotified
	}
	if s.enabledNew&mask == 0 {
		return ctrlNotEnabled
	}
	s.notifyNew(cat)
	return ctrlNotified
}

// notifyUnreadNow pushes the current Unread Alert count for one enabled
// category. Unlike notifyNewNow it does not fan out for AllCategories:
// the upstream protocol behavior is asymmetric here, and the asymmetry
// is kept rather than silently corrected (see DESIGN.md).
func (s *Service) notifyUnreadNow(cat CategoryID, mask CategoryMask) controlOutcome {
	if cat == AllCategories {
		s.log.Warn("ans: notify unread now does not fan out for all categories")
		return ctrlNotEnabled
	}
	if s.enabledUnread&mask == 0 {
		return ctrlNotEnabled
	}
	s.notifyUnread(cat)
	return ctrlNotified
}
