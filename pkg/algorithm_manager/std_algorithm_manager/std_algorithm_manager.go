package std_algorithm_manager

import (
	"github.com/ecopia-map/usd_geolocator/internal/converters"
	"github.com/ecopia-map/usd_geolocator/internal/converters/proj4_coordinate_converter"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
	"github.com/ecopia-map/usd_geolocator/internal/scene"
	"github.com/ecopia-map/usd_geolocator/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options             *geoxform.GeolocatorOptions
	sceneProvider       scene.Provider
	crsParser           crs.Parser
	coordinateConverter converters.CoordinateConverter
}

// Builds the algorithms backed by the local filesystem, the WKT grammar and PROJ
func NewAlgorithmManager(opts *geoxform.GeolocatorOptions) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options:             opts,
		sceneProvider:       scene.NewFileProvider(),
		crsParser:           crs.NewWKTParser(),
		coordinateConverter: proj4_coordinate_converter.NewProj4CoordinateConverter(),
	}
}

func (m *StandardAlgorithmManager) GetSceneProvider() scene.Provider {
	return m.sceneProvider
}

func (m *StandardAlgorithmManager) GetCRSParser() crs.Parser {
	return m.crsParser
}

func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return m.coordinateConverter
}
