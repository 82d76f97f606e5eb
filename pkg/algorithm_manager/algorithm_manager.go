package algorithm_manager

import (
	"github.com/ecopia-map/usd_geolocator/internal/converters"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
)

type AlgorithmManager interface {
	GetSceneProvider() scene.Provider
	GetCRSParser() crs.Parser
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
}
