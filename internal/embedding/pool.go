package embedding

// meanPool averages token vectors (row-major, dims per token) over positions
// whose attention mask is set.
func meanPool(hidden []float32, mask []int64, dims int) []float32 {
	out := make([]float32, dims)
	var n float32
	for tok, m := range mask {
		if m == 0 {
			continue
		}
		row := hidden[tok*dims : (tok+1)*dims]
		for i, v := range row {
			out[i] += v
		}
		n++
	}
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] /= n
	}
	return out
}
