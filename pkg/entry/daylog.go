package entry

// DayLog is the single document persisted per calendar day: three entry
// sequences. Walks are kept ascending by time; meals and snacks keep
// insertion order.
type DayLog struct {
	Walks  []Walk  `json:"walks"`
	Meals  []Meal  `json:"meals"`
	Snacks []Snack `json:"snacks"`
}

// NewDayLog returns an empty log with non-nil sequences so the stored
// document always carries all three arrays.
func NewDayLog() *DayLog {
	return &DayLog{
		Walks:  []Walk{},
		Meals:  []Meal{},
		Snacks: []Snack{},
	}
}

func (d *DayLog) Empty() bool {
	return d == nil || (len(d.Walks) == 0 && len(d.Meals) == 0 && len(d.Snacks) == 0)
}

func (d *DayLog) Clone() *DayLog {
	out := NewDayLog()
	if d == nil {
		return out
	}
	out.Walks = append(out.Walks, d.Walks...)
	out.Meals = append(out.Meals, d.Meals...)
	out.Snacks = append(out.Snacks, d.Snacks...)
	return out
}

// VisibleMeals filters to meals that carry a positive weight. Malformed
// records stay in the document; they are only excluded from rendering.
func (d *DayLog) VisibleMeals() []Meal {
	out := make([]Meal, 0, len(d.Meals))
	for _, m := range d.Meals {
		if m.Weight > 0 {
			out = append(out, m)
		}
	}
	return out
}

// VisibleSnacks filters to snacks that carry a positive quantity.
func (d *DayLog) VisibleSnacks() []Snack {
	out := make([]Snack, 0, len(d.Snacks))
	for _, s := range d.Snacks {
		if s.Quantity > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Quarantined counts meal and snack records hidden from rendering because a
// required numeric field is missing or non-positive. Walks never quarantine;
// a walk with a broken timestamp renders with an error marker instead.
func (d *DayLog) Quarantined() int {
	n := 0
	for _, m := range d.Meals {
		if m.Weight <= 0 {
			n++
		}
	}
	for _, s := range d.Snacks {
		if s.Quantity <= 0 {
			n++
		}
	}
	return n
}
