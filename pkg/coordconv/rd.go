package coordconv

import (
	"math"
)

// RD reference point (Amersfoort) in both systems
const (
	rdX0    = 155000.0
	rdY0    = 463000.0
	wgsLat0 = 52.15517440
	wgsLon0 = 5.38720621
)

// term is one coefficient of the RD <-> WGS84 approximation polynomials.
// p is the exponent of the first variable, q of the second.
type term struct {
	p, q int
	c    float64
}

// RD -> WGS84, variables dX, dY in units of 100 km, result in arc seconds
var (
	rdToLatTerms = []term{
		{0, 1, 3235.65389}, {2, 0, -32.58297}, {0, 2, -0.24750}, {2, 1, -0.84978},
		{0, 3, -0.06550}, {2, 2, -0.01709}, {1, 0, -0.00738}, {4, 0, 0.00530},
		{2, 3, -0.00039}, {4, 1, 0.00033}, {1, 1, -0.00012},
	}
	rdToLonTerms = []term{
		{1, 0, 5260.52916}, {1, 1, 105.94684}, {1, 2, 2.45656}, {3, 0, -0.81885},
		{1, 3, 0.05594}, {3, 1, -0.05607}, {0, 1, 0.01199}, {3, 2, -0.00256},
		{1, 4, 0.00128}, {0, 2, 0.00022}, {2, 0, -0.00022}, {5, 0, 0.00026},
	}
)

// WGS84 -> RD, variables dLat, dLon in units of 10000 arc seconds, result in meters
var (
	wgsToXTerms = []term{
		{0, 1, 190094.945}, {1, 1, -11832.228}, {2, 1, -114.221}, {0, 3, -32.391},
		{1, 0, -0.705}, {3, 1, -2.340}, {1, 3, -0.608}, {0, 2, -0.008}, {2, 3, 0.148},
	}
	wgsToYTerms = []term{
		{1, 0, 309056.544}, {0, 2, 3638.893}, {2, 0, 73.077}, {1, 2, -157.984},
		{3, 0, 59.788}, {0, 1, 0.433}, {2, 2, -6.439}, {1, 1, -0.032},
		{0, 4, 0.092}, {1, 4, -0.054},
	}
)

func evaluate(terms []term, a, b float64) float64 {
	sum := 0.0
	for _, t := range terms {
		sum += t.c * math.Pow(a, float64(t.p)) * math.Pow(b, float64(t.q))
	}
	return sum
}

// RDToWGS84 converts RD to WGS84 with the Schreutelkamp / Strang van Hees
// approximation. Accuracy is better than a meter inside the RD domain. The height
// is carried over unchanged.
func RDToWGS84(rd Vector3RD) Vector3WGS84 {
	dX := (rd.X - rdX0) * 1e-5
	dY := (rd.Y - rdY0) * 1e-5
	return Vector3WGS84{
		Lat: wgsLat0 + evaluate(rdToLatTerms, dX, dY)/3600,
		Lon: wgsLon0 + evaluate(rdToLonTerms, dX, dY)/3600,
		H:   rd.Z,
	}
}

// WGS84ToRD converts WGS84 to RD, the inverse of RDToWGS84.
func WGS84ToRD(wgs Vector3WGS84) Vector3RD {
	dLat := 0.36 * (wgs.Lat - wgsLat0)
	dLon := 0.36 * (wgs.Lon - wgsLon0)
	return Vector3RD{
		X: rdX0 + evaluate(wgsToXTerms, dLat, dLon),
		Y: rdY0 + evaluate(wgsToYTerms, dLat, dLon),
		Z: wgs.H,
	}
}
