package traffic

// Volume pairs an origin Location with a destination Location and a set
// of per-vehicle-class spawn rates. Only Cars feeds the spawn phase; the
// other classes are reserved.
type Volume struct {
	Title       string
	Origin      Location
	Destination Location

	CarsPerHour   float64
	TrucksPerHour float64
	BusesPerHour  float64
	TramsPerHour  float64
}

// active reports whether the volume has a non-empty origin/destination
// and a positive car spawn rate; inactive volumes never draw from the
// randomizer at all.
func (v *Volume) active() bool {
	return !v.Origin.IsEmpty() && !v.Destination.IsEmpty() && v.CarsPerHour > 0
}
