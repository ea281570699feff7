package game

// Wagon is one train car with gold inside and on its roof
type Wagon struct {
	Car    int
	Inside int
	Roof   int
}

// Gold returns the bars on the given layer
func (w *Wagon) Gold(onRoof bool) int {
	if onRoof {
		return w.Roof
	}
	return w.Inside
}

// take removes one bar from a layer; it never goes negative
func (w *Wagon) take(onRoof bool) bool {
	pile := &w.Inside
	if onRoof {
		pile = &w.Roof
	}
	if *pile <= 0 {
		return false
	}
	*pile--
	return true
}

func (w *Wagon) put(onRoof bool) {
	if onRoof {
		w.Roof++
	} else {
		w.Inside++
	}
}
