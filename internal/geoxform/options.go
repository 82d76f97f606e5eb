package geoxform

import "strings"

type OutputFormat string

const (
	// Human readable listing of every prim, in the layout of the usdview python console
	OutputText OutputFormat = "TEXT"

	// One JSON object per prim, suited to further processing
	OutputJSON OutputFormat = "JSON"
)

const (
	// TargetNone disables the reprojection step
	TargetNone = "none"

	// Preset used when no target CRS is given
	DefaultTarget = "nad83-utm17n"
)

func (e OutputFormat) String() string {
	if e == OutputText {
		return "TEXT"
	} else if e == OutputJSON {
		return "JSON"
	}
	return ""
}

func ParseOutputFormat(value string) OutputFormat {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "TEXT" {
		return OutputText
	} else if normalizedValue == "JSON" {
		return OutputJSON
	}
	return ""
}

// Contains the options needed to geolocate the prims of a set of documents
type GeolocatorOptions struct {
	Input                string       // Input USD layer file/folder
	FolderProcessing     bool         // Enables the processing of all .usda files in folder
	Recursive            bool         // Recursive lookup of .usda files in subfolders
	BaseFolder           string       // Folder relative reference pointers resolve against, defaults to the document's folder
	TargetCRS            string       // Preset name, WKT file, inline WKT or document<target> pointer; "none" disables reprojection
	ReferenceAttribute   string       // Attribute holding document<target> pointers
	InlineAttribute      string       // Attribute holding inline WKT
	ReferenceCacheSize   int          // Max number of cached cross-document resolutions
	TransformerCacheSize int          // Max number of cached transformers
	CacheFailures        bool         // Keeps failed resolutions in the reference cache
	Output               OutputFormat // Output format of the report
	Color                bool         // Enables terminal styling of the text report
}

// Builds the options used when nothing else is configured
func DefaultOptions() *GeolocatorOptions {
	return &GeolocatorOptions{
		TargetCRS:            DefaultTarget,
		ReferenceAttribute:   "primvars:geolocation:crs",
		InlineAttribute:      "primvars:geolocation:crs:wkt",
		ReferenceCacheSize:   32,
		TransformerCacheSize: 32,
		CacheFailures:        true,
		Output:               OutputText,
	}
}

func (opt *GeolocatorOptions) Copy() *GeolocatorOptions {
	newOpt := *opt
	return &newOpt
}

// HasTarget reports whether positions have to be reprojected
func (opt *GeolocatorOptions) HasTarget() bool {
	target := strings.TrimSpace(opt.TargetCRS)
	return target != "" && !strings.EqualFold(target, TargetNone)
}
