package firmware

// FillValue is the byte used for synthetic gap-fill nodes (erased flash).
const FillValue = 0xFF

// FillGaps returns nodes with every missing address between the first and
// last node filled with FillValue, together with the filled addresses in
// ascending order. nodes must be sorted ascending with unique addresses.
func FillGaps(nodes []Node) ([]Node, []uint32) {
	if len(nodes) < 2 {
		out := make([]Node, len(nodes))
		copy(out, nodes)
		return out, nil
	}

	var missing uint64
	for i := 1; i < len(nodes); i++ {
		missing += uint64(nodes[i].Addr-nodes[i-1].Addr) - 1
	}

	out := make([]Node, 0, uint64(len(nodes))+missing)
	filled := make([]uint32, 0, missing)
	out = append(out, nodes[0])
	for i := 1; i < len(nodes); i++ {
		for a := nodes[i-1].Addr + 1; a < nodes[i].Addr; a++ {
			out = append(out, Node{Addr: a, Data: FillValue})
			filled = append(filled, a)
		}
		out = append(out, nodes[i])
	}
	return out, filled
}
