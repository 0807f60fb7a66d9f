package inventory

// clamper lleva a cero los resultados negativos y recuerda qué campos recortó.
type clamper struct {
	clamped []Granularity
}

func (c *clamper) floor(g Granularity, n int) int {
	if n >= 0 {
		return n
	}
	for _, seen := range c.clamped {
		if seen == g {
			return 0
		}
	}
	c.clamped = append(c.clamped, g)
	return 0
}

func (c *clamper) result(v StockVector) Reconciliation {
	return Reconciliation{Vector: v, Clamped: c.clamped}
}

// floorDiv2 ⌊n/2⌋ también para n negativo (la división de Go trunca hacia cero).
func floorDiv2(n int) int {
	q := n / 2
	if n < 0 && n%2 != 0 {
		q--
	}
	return q
}

// ceilDiv2 ⌈n/2⌉ también para n negativo.
func ceilDiv2(n int) int {
	q := n / 2
	if n > 0 && n%2 != 0 {
		q++
	}
	return q
}
