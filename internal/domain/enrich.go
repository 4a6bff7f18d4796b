package domain

import "log/slog"

// EnrichWithStation fills the observation's location and, when the
// observation does not state one, its water type from the directory. If dir is
// nil or the station is unknown the observation is returned unchanged.
func EnrichWithStation(obs RawObservation, dir StationDirectory, logger *slog.Logger) RawObservation {
	if dir == nil || obs.Station == "" {
		return obs
	}

	info, ok := dir.LookupStation(obs.Station)
	if !ok {
		logger.Debug("station not in directory", "station", obs.Station)
		return obs
	}

	if ParseWaterBodyType(obs.WaterType) == WaterUnspecified && info.WaterType != WaterUnspecified {
		obs.WaterType = info.WaterType.String()
	}
	if obs.Location == nil && (info.Lon != 0 || info.Lat != 0 || info.Group != "") {
		obs.Location = &StationLocation{Lon: info.Lon, Lat: info.Lat, Group: info.Group}
	}
	return obs
}
