package flipbook

// AnimatorBuilderOption is a functional option for configuring an Animator via NewAnimator.
type AnimatorBuilderOption func(*animator)

// WithSlotOrder sets the corner-to-slot mapping used when writing UVs.
// Defaults to BatchedSlots.
//
// Parameters:
//   - order: the slot order to use
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the slot order to an animator
func WithSlotOrder(order SlotOrder) AnimatorBuilderOption {
	return func(a *animator) {
		a.order = order
	}
}
