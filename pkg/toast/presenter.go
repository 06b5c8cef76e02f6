package toast

import (
	"log/slog"
	"time"
)

// Presenter owns the lifecycle of one visible toast: the entrance frame, the
// auto-dismiss countdown with pause/resume, user interactions and the exit
// animation. Every trigger ends in remove, which reports the dismissal to the
// owning container exactly once.
//
// A presenter holds at most one pending countdown timer at any time.
type Presenter struct {
	instance      *Instance
	sched         Scheduler
	exitAnimation time.Duration
	logger        *slog.Logger

	onChange    func()
	onDismissed func(inst *Instance, reason DismissReason)

	visible  bool
	paused   bool
	removing bool
	gone     bool
	reason   DismissReason

	// remaining is the countdown left when the current timer was started
	// (or when it was paused).
	remaining      time.Duration
	timerStartedAt time.Time

	timer       Cancel
	frame       Cancel
	exit        Cancel
	unsubscribe func()
}

func newPresenter(
	inst *Instance,
	sched Scheduler,
	exitAnimation time.Duration,
	logger *slog.Logger,
	onChange func(),
	onDismissed func(*Instance, DismissReason),
) *Presenter {
	return &Presenter{
		instance:      inst,
		sched:         sched,
		exitAnimation: exitAnimation,
		logger:        logger.With("toast_id", inst.ID),
		onChange:      onChange,
		onDismissed:   onDismissed,
	}
}

// Instance returns the presented toast.
func (p *Presenter) Instance() *Instance {
	return p.instance
}

// Phase returns the current lifecycle phase.
func (p *Presenter) Phase() Phase {
	switch {
	case p.gone:
		return PhaseGone
	case p.removing:
		return PhaseRemoving
	case p.paused:
		return PhasePaused
	case !p.visible:
		return PhaseEntering
	default:
		return PhaseVisible
	}
}

// Remaining returns the countdown left. While a timer runs this is the value
// it was started with.
func (p *Presenter) Remaining() time.Duration {
	return p.remaining
}

// start schedules the entrance flip and the countdown, and starts listening
// for dismiss requests on the toast's Ref.
func (p *Presenter) start() {
	p.frame = p.sched.Frame(func() {
		p.frame = nil
		if p.removing {
			return
		}
		p.visible = true
		p.changed()
	})

	if d := p.instance.Config.Duration; d > 0 {
		p.remaining = d
		p.startTimer(d)
	}

	p.unsubscribe = p.instance.Ref.OnDismissRequest(func() {
		// Dismiss may be called from any goroutine.
		p.sched.Dispatch(func() {
			p.remove(ReasonManual)
		})
	})
}

// PointerEnter pauses the countdown when the toast pauses on hover.
// It returns false when nothing changed.
func (p *Presenter) PointerEnter() bool {
	cfg := p.instance.Config
	if !cfg.PauseOnHover || cfg.Duration <= 0 || p.paused || p.removing || p.timer == nil {
		return false
	}

	p.clearTimer()
	elapsed := p.sched.Now().Sub(p.timerStartedAt)
	p.remaining = max(0, p.remaining-elapsed)
	p.paused = true

	p.logger.Debug("toast paused", "remaining", p.remaining)
	p.changed()
	return true
}

// PointerLeave resumes a paused countdown. A countdown that had already run
// out while paused dismisses the toast right away with ReasonTimeout.
func (p *Presenter) PointerLeave() bool {
	if !p.paused || !p.instance.Config.PauseOnHover || p.removing {
		return false
	}
	p.paused = false

	if p.remaining <= 0 {
		p.remove(ReasonTimeout)
		return true
	}

	p.startTimer(p.remaining)
	p.logger.Debug("toast resumed", "remaining", p.remaining)
	p.changed()
	return true
}

// CloseClick handles the close button. It returns true when the click was
// consumed, in which case the host must not also deliver it as a body Click.
func (p *Presenter) CloseClick() bool {
	if !p.instance.Config.Closeable {
		return false
	}
	p.remove(ReasonManual)
	return true
}

// Click handles a click on the toast body.
func (p *Presenter) Click() bool {
	if !p.instance.Config.DismissOnClick {
		return false
	}
	p.remove(ReasonManual)
	return true
}

// ActionClick runs the action callback, if any, and then always dismisses
// the toast with ReasonAction.
func (p *Presenter) ActionClick() bool {
	action := p.instance.Config.Action
	if action == nil || p.removing {
		return false
	}
	if action.Callback != nil {
		p.runAction(action.Callback)
	}
	p.remove(ReasonAction)
	return true
}

// Swipe dismisses the toast with ReasonSwipe.
func (p *Presenter) Swipe() bool {
	if p.removing {
		return false
	}
	p.remove(ReasonSwipe)
	return true
}

// Interact routes a host interaction to the matching handler.
func (p *Presenter) Interact(in Interaction) bool {
	switch in {
	case InteractPointerEnter:
		return p.PointerEnter()
	case InteractPointerLeave:
		return p.PointerLeave()
	case InteractClick:
		return p.Click()
	case InteractClose:
		return p.CloseClick()
	case InteractAction:
		return p.ActionClick()
	case InteractSwipe:
		return p.Swipe()
	}
	return false
}

// remove is the single exit path. It stops the countdown, enters the
// removing phase and reports the dismissal after the exit animation.
func (p *Presenter) remove(reason DismissReason) {
	if p.removing {
		return
	}
	p.removing = true
	p.paused = false
	p.reason = reason

	p.clearTimer()
	if p.frame != nil {
		p.frame()
		p.frame = nil
	}
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}

	p.logger.Debug("toast removing", "reason", reason)
	p.changed()

	p.exit = p.sched.AfterFunc(p.exitAnimation, func() {
		p.exit = nil
		p.finish()
	})
}

func (p *Presenter) finish() {
	if p.gone {
		return
	}
	p.gone = true
	if p.onDismissed != nil {
		p.onDismissed(p.instance, p.reason)
	}
}

// stop cancels everything the presenter scheduled without reporting a
// dismissal. Used when a toast is taken out of its container directly.
func (p *Presenter) stop() {
	p.clearTimer()
	if p.frame != nil {
		p.frame()
		p.frame = nil
	}
	if p.exit != nil {
		p.exit()
		p.exit = nil
	}
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.gone = true
}

func (p *Presenter) startTimer(d time.Duration) {
	p.clearTimer()
	p.timerStartedAt = p.sched.Now()
	p.timer = p.sched.AfterFunc(d, func() {
		p.timer = nil
		p.remove(ReasonTimeout)
	})
}

func (p *Presenter) clearTimer() {
	if p.timer != nil {
		p.timer()
		p.timer = nil
	}
}

func (p *Presenter) runAction(callback func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("toast action panic", "panic", r)
		}
	}()
	callback()
}

func (p *Presenter) changed() {
	if p.onChange != nil && !p.gone {
		p.onChange()
	}
}
