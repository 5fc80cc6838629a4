package detector

// Summary counts flagged rows per rule.
type Summary struct {
	Samples    int
	Rupture    int
	Slope      int
	Plateau    int
	Alerts     int
	FirstAlert int // -1 when nothing was flagged
	LastAlert  int
}

// Summarize counts the flag columns present in the frame.
func (f *Frame) Summarize() Summary {
	s := Summary{
		Samples:    f.Len(),
		Rupture:    countTrue(f.Rupture),
		Slope:      countTrue(f.Slope),
		Plateau:    countTrue(f.Plateau),
		Alerts:     countTrue(f.Alert),
		FirstAlert: -1,
		LastAlert:  -1,
	}
	for i, a := range f.Alert {
		if !a {
			continue
		}
		if s.FirstAlert < 0 {
			s.FirstAlert = i
		}
		s.LastAlert = i
	}
	return s
}

// AlertRows returns the indexes of rows with the combined alert set.
func (f *Frame) AlertRows() []int {
	rows := make([]int, 0)
	for i, a := range f.Alert {
		if a {
			rows = append(rows, i)
		}
	}
	return rows
}
