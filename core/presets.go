package core

import "github.com/signalsfoundry/impact-simulator/model"

// kmhToKmS converts the km/h speeds the landing page lists.
func kmhToKmS(kmh float64) float64 { return kmh / 3600 }

// DefaultPresets returns the built-in asteroid catalogue: the twelve
// near-Earth asteroids featured on the landing page plus the two
// calibrated bodies used to validate the descent model.
func DefaultPresets() []model.AsteroidPreset {
	return []model.AsteroidPreset{
		{ID: "433", Name: "433 Eros", DiameterKm: 16.84, VelocityKmS: kmhToKmS(86400), DistanceKm: 26.7e6, MaterialID: MaterialStony},
		{ID: "99942", Name: "99942 Apophis", DiameterKm: 0.37, VelocityKmS: kmhToKmS(30600), DistanceKm: 31.2e6, PotentiallyHazardous: true, MaterialID: MaterialStony},
		{ID: "101955", Name: "101955 Bennu", DiameterKm: 0.49, VelocityKmS: kmhToKmS(101400), DistanceKm: 84e6, PotentiallyHazardous: true, MaterialID: MaterialCarbonaceous},
		{ID: "1036", Name: "1036 Ganymed", DiameterKm: 31.66, VelocityKmS: kmhToKmS(72000), DistanceKm: 56e6, MaterialID: MaterialStony},
		{ID: "4179", Name: "4179 Toutatis", DiameterKm: 2.5, VelocityKmS: kmhToKmS(35280), DistanceKm: 7e6, MaterialID: MaterialStony},
		{ID: "25143", Name: "25143 Itokawa", DiameterKm: 0.33, VelocityKmS: kmhToKmS(95400), DistanceKm: 48e6, MaterialID: MaterialStony},
		{ID: "1566", Name: "1566 Icarus", DiameterKm: 1.4, VelocityKmS: kmhToKmS(93600), DistanceKm: 6.3e6, PotentiallyHazardous: true, MaterialID: MaterialStony},
		{ID: "4660", Name: "4660 Nereus", DiameterKm: 0.33, VelocityKmS: kmhToKmS(23400), DistanceKm: 4.6e6, MaterialID: MaterialMetallic},
		{ID: "162173", Name: "162173 Ryugu", DiameterKm: 0.88, VelocityKmS: kmhToKmS(91800), DistanceKm: 95e6, MaterialID: MaterialCarbonaceous},
		{ID: "3200", Name: "3200 Phaethon", DiameterKm: 5.1, VelocityKmS: kmhToKmS(110000), DistanceKm: 10.5e6, PotentiallyHazardous: true, MaterialID: MaterialCarbonaceous},
		{ID: "2062", Name: "2062 Aten", DiameterKm: 0.9, VelocityKmS: kmhToKmS(87840), DistanceKm: 18.6e6, MaterialID: MaterialStony},
		{ID: "1862", Name: "1862 Apollo", DiameterKm: 1.5, VelocityKmS: kmhToKmS(106200), DistanceKm: 11e6, MaterialID: MaterialStony},
		{
			ID:                   "29075",
			Name:                 "29075 (1950 DA)",
			Nickname:             "1950 DA",
			DiameterKm:           1.3,
			VelocityKmS:          14.1,
			PotentiallyHazardous: true,
			MaterialID:           MaterialMetallic,
			Override: &model.PresetOverride{
				TargetImpactVelocityKmS: 17.97,
				TargetFinalDiameterKm:   0.792,
			},
		},
		{
			ID:          "2020VV",
			Name:        "2020 VV",
			Nickname:    "2020 VV",
			DiameterKm:  0.012,
			VelocityKmS: 2.58,
			MaterialID:  MaterialCarbonaceous,
		},
	}
}
