package crs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type paramKind int

const (
	angular paramKind = iota
	linear
	scale
)

type projParam struct {
	key  string
	kind paramKind
}

// projection methods by normalized WKT1 or WKT2 name
var projMethods = map[string]string{
	"transverse_mercator":                   "tmerc",
	"mercator_1sp":                          "merc",
	"mercator_2sp":                          "merc",
	"mercator_variant_a":                    "merc",
	"mercator_variant_b":                    "merc",
	"mercator":                              "merc",
	"popular_visualisation_pseudo_mercator": "merc",
	"lambert_conformal_conic_1sp":           "lcc",
	"lambert_conformal_conic_2sp":           "lcc",
	"lambert_conic_conformal_1sp":           "lcc",
	"lambert_conic_conformal_2sp":           "lcc",
	"albers_conic_equal_area":               "aea",
	"albers_equal_area":                     "aea",
	"polar_stereographic":                   "stere",
	"polar_stereographic_variant_a":         "stere",
	"polar_stereographic_variant_b":         "stere",
	"oblique_stereographic":                 "sterea",
	"lambert_azimuthal_equal_area":          "laea",
	"equirectangular":                       "eqc",
	"equidistant_cylindrical":               "eqc",
	"cassini_soldner":                       "cass",
	"hotine_oblique_mercator":               "omerc",
	"hotine_oblique_mercator_variant_a":     "omerc",
	"orthographic":                          "ortho",
	"azimuthal_equidistant":                 "aeqd",
	"mollweide":                             "moll",
	"sinusoidal":                            "sinu",
	"new_zealand_map_grid":                  "nzmg",
}

// projection parameters by normalized WKT1 or WKT2 name
var projParams = map[string]projParam{
	"latitude_of_origin":                {"lat_0", angular},
	"latitude_of_natural_origin":        {"lat_0", angular},
	"latitude_of_center":                {"lat_0", angular},
	"latitude_of_false_origin":          {"lat_0", angular},
	"latitude_of_projection_centre":     {"lat_0", angular},
	"central_meridian":                  {"lon_0", angular},
	"longitude_of_natural_origin":       {"lon_0", angular},
	"longitude_of_center":               {"lon_0", angular},
	"longitude_of_origin":               {"lon_0", angular},
	"longitude_of_false_origin":         {"lon_0", angular},
	"longitude_of_projection_centre":    {"lon_0", angular},
	"standard_parallel_1":               {"lat_1", angular},
	"latitude_of_1st_standard_parallel": {"lat_1", angular},
	"latitude_of_standard_parallel":     {"lat_1", angular},
	"standard_parallel_2":               {"lat_2", angular},
	"latitude_of_2nd_standard_parallel": {"lat_2", angular},
	"scale_factor":                      {"k_0", scale},
	"scale_factor_at_natural_origin":    {"k_0", scale},
	"scale_factor_on_initial_line":      {"k_0", scale},
	"false_easting":                     {"x_0", linear},
	"easting_at_false_origin":           {"x_0", linear},
	"easting_at_projection_centre":      {"x_0", linear},
	"false_northing":                    {"y_0", linear},
	"northing_at_false_origin":          {"y_0", linear},
	"northing_at_projection_centre":     {"y_0", linear},
	"azimuth":                           {"alpha", angular},
	"azimuth_of_initial_line":           {"alpha", angular},
	"rectified_grid_angle":              {"gamma", angular},
	"angle_from_rectified_to_skew_grid": {"gamma", angular},
}

// output order of projection parameters
var projParamOrder = []string{"lat_0", "lat_1", "lat_2", "lat_ts", "lon_0", "alpha", "gamma", "k_0", "x_0", "y_0"}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_", "(", "", ")", "").Replace(name)
	return name
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Proj4 renders the descriptor as a PROJ.4 definition for the requested axis order.
// With EastingNorthing no axis directive is emitted regardless of the native order,
// so coordinates are always exchanged as (x=easting/longitude, y=northing/latitude).
func (d *Descriptor) Proj4(order AxisOrder) (string, error) {
	if order == Native {
		order = d.NativeAxisOrder()
	}

	var geog *wktNode
	switch d.kind {
	case Projected:
		geog = d.horizontal.child(geographicKeywords...)
	case Geographic, Geocentric:
		geog = d.horizontal
	default:
		return "", fmt.Errorf("%s: unsupported CRS kind", d.name)
	}
	if geog == nil {
		return "", fmt.Errorf("%s: missing geographic base CRS", d.name)
	}

	datum, err := datumTerms(geog)
	if err != nil {
		return "", fmt.Errorf("%s: %w", d.name, err)
	}

	var terms []string
	switch d.kind {
	case Geographic:
		terms = append(terms, "+proj=longlat")
		terms = append(terms, datum...)
	case Geocentric:
		terms = append(terms, "+proj=geocent")
		terms = append(terms, datum...)
		terms = append(terms, "+units=m")
	case Projected:
		projection, err := d.projectionTerms(geog)
		if err != nil {
			return "", fmt.Errorf("%s: %w", d.name, err)
		}
		terms = append(terms, projection...)
		terms = append(terms, datum...)
		if factor := d.linearUnit(); factor != 1 {
			terms = append(terms, "+to_meter="+formatNumber(factor))
		} else {
			terms = append(terms, "+units=m")
		}
	}

	if order == NorthingEasting && d.kind != Geocentric {
		terms = append(terms, "+axis=neu")
	}
	terms = append(terms, "+no_defs")
	return strings.Join(terms, " "), nil
}

func datumTerms(geog *wktNode) ([]string, error) {
	datum := geog.child("DATUM", "GEODETICDATUM", "TRF", "ENSEMBLE")
	ellipsoid := datum.child("SPHEROID", "ELLIPSOID")
	if ellipsoid == nil {
		return nil, fmt.Errorf("missing ellipsoid")
	}
	a, ok := ellipsoid.number(0)
	if !ok || a <= 0 {
		return nil, fmt.Errorf("ellipsoid %q has no semi-major axis", ellipsoid.name())
	}
	if unit := ellipsoid.child("LENGTHUNIT", "UNIT"); unit != nil {
		if f, ok := unit.number(0); ok && f > 0 {
			a *= f
		}
	}
	rf, _ := ellipsoid.number(1)

	terms := []string{"+a=" + formatNumber(a)}
	if rf == 0 {
		terms = append(terms, "+b="+formatNumber(a))
	} else {
		terms = append(terms, "+rf="+formatNumber(rf))
	}

	towgs84 := datum.child("TOWGS84")
	if towgs84 == nil {
		towgs84 = geog.child("TOWGS84")
	}
	if towgs84 != nil {
		values := towgs84.numbers()
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = formatNumber(v)
		}
		if len(parts) == 3 || len(parts) == 7 {
			terms = append(terms, "+towgs84="+strings.Join(parts, ","))
		}
	}

	if pm := geog.child("PRIMEM", "PRIMEMERIDIAN"); pm != nil {
		if lon, ok := pm.number(0); ok && lon != 0 {
			factor := angularUnitOf(pm)
			if factor == 0 {
				factor = angularUnitOf(geog)
			}
			terms = append(terms, "+pm="+formatNumber(toDegrees(lon, factor)))
		}
	}
	return terms, nil
}

func (d *Descriptor) projectionTerms(geog *wktNode) ([]string, error) {
	method := d.Projection()
	proj, ok := projMethods[normalizeName(method)]
	if !ok {
		return nil, fmt.Errorf("unsupported projection method %q", method)
	}

	geogAngular := angularUnitOf(geog)
	projLinear := d.linearUnit()

	nodes := d.horizontal.children("PARAMETER")
	if len(nodes) == 0 {
		nodes = d.horizontal.child("CONVERSION").children("PARAMETER")
	}

	values := map[string]float64{}
	for _, p := range nodes {
		spec, ok := projParams[normalizeName(p.name())]
		if !ok {
			continue
		}
		v, ok := p.number(0)
		if !ok {
			return nil, fmt.Errorf("parameter %q has no value", p.name())
		}
		switch spec.kind {
		case angular:
			factor := angularUnitOf(p)
			if factor == 0 {
				factor = geogAngular
			}
			v = toDegrees(v, factor)
		case linear:
			// WKT1 gives false origins in the projected unit, PROJ wants metres
			if unit := p.child("LENGTHUNIT", "UNIT"); unit != nil {
				if f, ok := unit.number(0); ok && f > 0 {
					v *= f
				}
			} else {
				v *= projLinear
			}
		}
		values[spec.key] = v
	}

	normalized := normalizeName(method)
	switch proj {
	case "lcc":
		if _, ok := values["lat_1"]; !ok {
			values["lat_1"] = values["lat_0"]
		}
	case "merc":
		if v, ok := values["lat_1"]; ok {
			delete(values, "lat_1")
			values["lat_ts"] = v
		}
	case "stere":
		if _, ok := values["lat_ts"]; !ok {
			ts, ok := values["lat_1"]
			if !ok {
				ts = values["lat_0"]
			}
			delete(values, "lat_1")
			values["lat_ts"] = ts
		}
		if values["lat_ts"] < 0 {
			values["lat_0"] = -90
		} else {
			values["lat_0"] = 90
		}
	}

	terms := []string{"+proj=" + proj}
	for _, key := range projParamOrder {
		if v, ok := values[key]; ok {
			terms = append(terms, "+"+key+"="+formatNumber(v))
		}
	}
	if normalized == "popular_visualisation_pseudo_mercator" {
		terms = append(terms, "+nadgrids=@null", "+wktext")
	}
	return terms, nil
}

// linearUnit returns the metres per unit of a projected CRS
func (d *Descriptor) linearUnit() float64 {
	unit := d.horizontal.child("UNIT", "LENGTHUNIT")
	if unit == nil {
		for _, axis := range d.horizontal.children("AXIS") {
			if unit = axis.child("LENGTHUNIT", "UNIT"); unit != nil {
				break
			}
		}
	}
	if f, ok := unit.number(0); ok && f > 0 {
		return f
	}
	return 1
}

// angularUnitOf returns the radians per unit declared on n, or 0 when none is declared
func angularUnitOf(n *wktNode) float64 {
	unit := n.child("ANGLEUNIT", "UNIT")
	if f, ok := unit.number(0); ok && f > 0 {
		return f
	}
	return 0
}

func toDegrees(v, radiansPerUnit float64) float64 {
	if radiansPerUnit == 0 {
		return v
	}
	deg := v * radiansPerUnit * 180 / math.Pi
	// absorb the rounding of the degree factor itself (0.0174532925199433)
	return math.Round(deg*1e9) / 1e9
}
