package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/impact-simulator/model"
)

// EarthRadiusKm is the mean radius used for great-circle back-projection.
const EarthRadiusKm = 6371.0

// minTrackAngleDeg guards against the horizontal distance diverging for
// grazing entries.
const minTrackAngleDeg = 1.0

// ComputeGroundTrack places each low-altitude snapshot over the Earth by
// walking back from the target along the direction of travel. A body at
// altitude h on a straight descent at angleDeg is h/tan(angle) km uprange
// of where it lands. The entry point is the position at the top of the
// high-altitude phase. epoch fixes the sidereal time used for the ECEF
// conversion. It returns nil for grazing angles.
func ComputeGroundTrack(phase1, phase2 model.Trajectory, target model.GeoPoint, azimuthDeg, angleDeg float64, epoch time.Time) *model.GroundTrack {
	if angleDeg < minTrackAngleDeg || angleDeg > 90 {
		return nil
	}
	tanA := math.Tan(degToRad(angleDeg))
	jday := julianDay(epoch)

	floor := 0.0
	if last, ok := phase2.Last(); ok {
		floor = last.AltitudeKm
	}

	place := func(t, altKm float64) model.GroundTrackPoint {
		downrange := max(0, (altKm-floor)/tanA)
		pos := destination(target, azimuthDeg+180, downrange)
		return model.GroundTrackPoint{
			ElapsedTimeS: t,
			Position:     pos,
			AltitudeKm:   altKm,
			DownrangeKm:  downrange,
			ECEFKm:       toECEF(pos, altKm, jday),
		}
	}

	track := &model.GroundTrack{
		Target:     target,
		AzimuthDeg: azimuthDeg,
		Points:     make([]model.GroundTrackPoint, 0, len(phase2.States)),
	}
	if first, ok := phase1.First(); ok {
		track.EntryPoint = place(first.ElapsedTimeS, first.AltitudeKm)
	} else if first, ok := phase2.First(); ok {
		track.EntryPoint = place(first.ElapsedTimeS, first.AltitudeKm)
	}
	for _, s := range phase2.States {
		track.Points = append(track.Points, place(s.ElapsedTimeS, s.AltitudeKm))
	}
	return track
}

// destination returns the point distanceKm from start along bearingDeg.
func destination(start model.GeoPoint, bearingDeg, distanceKm float64) model.GeoPoint {
	if distanceKm == 0 {
		return start
	}
	lat1 := degToRad(start.LatitudeDeg)
	lon1 := degToRad(start.LongitudeDeg)
	brg := degToRad(bearingDeg)
	delta := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(
		math.Sin(brg)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	lon := math.Mod(radToDeg(lon2)+540, 360) - 180
	return model.GeoPoint{LatitudeDeg: radToDeg(lat2), LongitudeDeg: lon}
}

func julianDay(t time.Time) float64 {
	t = t.UTC()
	return satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// toECEF converts a geodetic position to Earth-fixed coordinates in km.
func toECEF(p model.GeoPoint, altKm, jday float64) [3]float64 {
	ll := satellite.LatLong{
		Latitude:  degToRad(p.LatitudeDeg),
		Longitude: degToRad(p.LongitudeDeg),
	}
	eci := satellite.LLAToECI(ll, altKm, jday)
	ecef := satellite.ECIToECEF(eci, satellite.ThetaG_JD(jday))
	return [3]float64{ecef.X, ecef.Y, ecef.Z}
}
