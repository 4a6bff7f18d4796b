package domain

// StationInfo is what a station mapping knows about one station.
type StationInfo struct {
	Name      string
	Lon       float64
	Lat       float64
	WaterType WaterBodyType
	Group     string
}

// StationDirectory resolves station names to mapping data.
type StationDirectory interface {
	// LookupStation finds a station by name. Implementations compare
	// NormalizeStationName keys.
	LookupStation(name string) (StationInfo, bool)
}
