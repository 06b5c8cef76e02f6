package toast

import "time"

// Observer receives toast lifecycle notifications. Methods run on the loop
// and must not block.
type Observer interface {
	ToastShown(inst *Instance)
	ToastDismissed(inst *Instance, reason DismissReason, lifetime time.Duration)
	ContainerMounted(position Position)
	ContainerUnmounted(position Position)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) ToastShown(*Instance)                                   {}
func (NopObserver) ToastDismissed(*Instance, DismissReason, time.Duration) {}
func (NopObserver) ContainerMounted(Position)                              {}
func (NopObserver) ContainerUnmounted(Position)                            {}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) ToastShown(inst *Instance) {
	for _, obs := range o {
		obs.ToastShown(inst)
	}
}

func (o Observers) ToastDismissed(inst *Instance, reason DismissReason, lifetime time.Duration) {
	for _, obs := range o {
		obs.ToastDismissed(inst, reason, lifetime)
	}
}

func (o Observers) ContainerMounted(position Position) {
	for _, obs := range o {
		obs.ContainerMounted(position)
	}
}

func (o Observers) ContainerUnmounted(position Position) {
	for _, obs := range o {
		obs.ContainerUnmounted(position)
	}
}
