package data

import (
	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

// Contains the georeferenced position of a prim: its world X,Y,Z coords,
// the name of its CRS and, when a target CRS was requested, the reprojected X,Y.
// Z is never reprojected.
type ResultRecord struct {
	NodePath     string
	CRSName      string
	WorldX       float64
	WorldY       float64
	WorldZ       float64
	TransformedX *float64
	TransformedY *float64
}

// Builds a new ResultRecord from the given path, CRS name and world coordinates
func NewResultRecord(nodePath, crsName string, x, y, z float64) *ResultRecord {
	return &ResultRecord{
		NodePath: nodePath,
		CRSName:  crsName,
		WorldX:   x,
		WorldY:   y,
		WorldZ:   z,
	}
}

// Returns a copy of the record carrying the reprojected planar coordinates
func (r *ResultRecord) WithTransformed(x, y float64) *ResultRecord {
	c := *r
	c.TransformedX = &x
	c.TransformedY = &y
	return &c
}

func (r *ResultRecord) IsTransformed() bool {
	return r.TransformedX != nil && r.TransformedY != nil
}

// WorldPosition reads the translation row of the prim's world transform.
// ok is false when the prim has no transform.
func WorldPosition(node *scene.Node) (x, y, z float64, ok bool) {
	m, ok := node.WorldTransform()
	if !ok {
		return 0, 0, 0, false
	}
	x, y, z = m.Translation()
	return x, y, z, true
}
