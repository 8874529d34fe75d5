package paging

import "reflect"

// HookPos names the point of a run at which hooks are invoked.
type HookPos struct {
	Name string
}

// HookPosStepDone is triggered after each Step, the initial one included.
// The Item of the HookCtx is the Step.
var HookPosStepDone = &HookPos{Name: "StepDone"}

// HookPosRunDone is triggered once the Trace is complete. The Item of the
// HookCtx is the Trace.
var HookPosRunDone = &HookPos{Name: "RunDone"}

// HookCtx is the information passed to a hook.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// A HookableBase keeps the hooks of a Hookable.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	return &HookableBase{Hooks: make([]Hook, 0)}
}

// AcceptHook registers a hook. Registering the same hook twice panics. Hooks
// of uncomparable types, such as HookFunc, are never considered duplicated.
func (h *HookableBase) AcceptHook(hook Hook) {
	canCompare := reflect.TypeOf(hook).Comparable()

	for _, registered := range h.Hooks {
		if canCompare && registered == hook {
			panic("duplicated hook")
		}
	}

	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}
