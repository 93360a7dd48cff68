package batch

// ItemCost is one item's contribution to a combined-payload fee split.
type ItemCost struct {
	Index      int
	ByteLen    int
	FeeSatoshi int64
}

// CostSavings reports how much a single-transaction batch inscribe saved
// versus inscribing every asset individually.
type CostSavings struct {
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CostSplit apportions a single combined-transaction fee across items
// proportionally to each item's byte length within the combined payload.
// Remainder satoshis from integer division are assigned to the largest
// items first so the split sums exactly to batchFee.
func CostSplit(byteLens []int, batchFeeSatoshi int64) []ItemCost {
	total := 0
	for _, n := range byteLens {
		total += n
	}
	costs := make([]ItemCost, len(byteLens))
	if total == 0 {
		return costs
	}

	assigned := int64(0)
	for i, n := range byteLens {
		share := batchFeeSatoshi * int64(n) / int64(total)
		costs[i] = ItemCost{Index: i, ByteLen: n, FeeSatoshi: share}
		assigned += share
	}

	remainder := batchFeeSatoshi - assigned
	order := largestFirst(byteLens)
	for i := 0; remainder > 0 && i < len(order); i++ {
		costs[order[i]].FeeSatoshi++
		remainder--
	}
	return costs
}

// ComputeSavings reports the cost-savings of a single-transaction batch
// versus the sum of inscribing each item individually.
func ComputeSavings(individualFeesSatoshi []int64, batchFeeSatoshi int64) CostSavings {
	var sumIndividual int64
	for _, f := range individualFeesSatoshi {
		sumIndividual += f
	}
	amount := sumIndividual - batchFeeSatoshi
	var pct float64
	if sumIndividual > 0 {
		pct = float64(amount) / float64(sumIndividual) * 100
	}
	return CostSavings{Amount: amount, Percentage: pct}
}

func largestFirst(byteLens []int) []int {
	order := make([]int, len(byteLens))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && byteLens[order[j]] > byteLens[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
