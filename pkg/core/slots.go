package core

// ShuffledSlots returns a uniformly shuffled permutation of [0, n). Each value
// appears exactly once, so every particle of one rebuild owns a distinct
// stratification slot.
func ShuffledSlots(r Rand, n int) []int {
	if n <= 0 {
		return nil
	}
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		slots[i], slots[j] = slots[j], slots[i]
	}
	return slots
}
