package day

// Counts tallies days per classification. Every classification has its own field
// so a new kind cannot be added without touching Add and Get.
type Counts struct {
	PreEntry       int
	UKResidence    int
	ShortTrip      int
	LongTrip       int
	NoVisaCoverage int
	Unknown        int
}

// Add records one day of classification c. Undeclared values are tallied as Unknown.
func (c *Counts) Add(cl Classification) {
	switch cl {
	case PreEntry:
		c.PreEntry++
	case UKResidence:
		c.UKResidence++
	case ShortTrip:
		c.ShortTrip++
	case LongTrip:
		c.LongTrip++
	case NoVisaCoverage:
		c.NoVisaCoverage++
	default:
		c.Unknown++
	}
}

// Get returns the tally for cl.
func (c Counts) Get(cl Classification) int {
	switch cl {
	case PreEntry:
		return c.PreEntry
	case UKResidence:
		return c.UKResidence
	case ShortTrip:
		return c.ShortTrip
	case LongTrip:
		return c.LongTrip
	case NoVisaCoverage:
		return c.NoVisaCoverage
	default:
		return c.Unknown
	}
}

// Total is the number of days tallied.
func (c Counts) Total() int {
	return c.PreEntry + c.UKResidence + c.ShortTrip + c.LongTrip + c.NoVisaCoverage + c.Unknown
}

// Plus returns the field-wise sum of c and o.
func (c Counts) Plus(o Counts) Counts {
	return Counts{
		PreEntry:       c.PreEntry + o.PreEntry,
		UKResidence:    c.UKResidence + o.UKResidence,
		ShortTrip:      c.ShortTrip + o.ShortTrip,
		LongTrip:       c.LongTrip + o.LongTrip,
		NoVisaCoverage: c.NoVisaCoverage + o.NoVisaCoverage,
		Unknown:        c.Unknown + o.Unknown,
	}
}

// Map exposes the tallies keyed by classification, for display.
func (c Counts) Map() map[Classification]int {
	m := make(map[Classification]int, len(Classifications))
	for _, cl := range Classifications {
		m[cl] = c.Get(cl)
	}
	return m
}
