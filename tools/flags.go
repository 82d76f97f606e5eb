package tools

const (
	CommandTraverse = "traverse"
	CommandResolve  = "resolve"
	CommandVersion  = "version"
)

// Flags shared by every command
type FlagsGlobal struct {
	Config    string `name:"config" short:"c" type:"path" help:"YAML or TOML file with default flag values." json:"config"`
	EnvFile   string `name:"env-file" type:"path" help:"Loads GEOLOCATOR_* variables from a .env file." json:"env_file"`
	Verbosity int    `name:"verbosity" short:"V" default:"0" help:"Verbosity of the diagnostic log written to stderr." json:"verbosity"`
	Silent    bool   `name:"silent" short:"s" help:"Use to suppress all the non-error messages." json:"silent"`
	Timestamp bool   `name:"timestamp" short:"t" help:"Adds timestamp to log messages." json:"timestamp"`
}

// Flags selecting how references are located and resolved
type ResolverFlags struct {
	BaseFolder           string `name:"base-folder" short:"b" type:"path" help:"Folder relative reference pointers resolve against. Defaults to the folder of each document." json:"base_folder"`
	ReferenceAttribute   string `name:"reference-attribute" default:"primvars:geolocation:crs" help:"Attribute holding document<target> pointers." json:"reference_attribute"`
	InlineAttribute      string `name:"inline-attribute" default:"primvars:geolocation:crs:wkt" help:"Attribute holding inline WKT definitions." json:"inline_attribute"`
	ReferenceCacheSize   int    `name:"reference-cache-size" default:"32" help:"Max number of cached cross-document resolutions." json:"reference_cache_size"`
	TransformerCacheSize int    `name:"transformer-cache-size" default:"32" help:"Max number of cached coordinate transformers." json:"transformer_cache_size"`
	CacheFailures        bool   `name:"cache-failures" default:"true" negatable:"" help:"Remembers failed resolutions for the rest of the run." json:"cache_failures"`
}

type FlagsForCommandTraverse struct {
	ResolverFlags
	Input     string `arg:"" name:"input" type:"path" help:"USD layer (.usda) or folder of layers." json:"input"`
	Folder    bool   `name:"folder" short:"f" help:"Enables processing of all .usda files from input folder. Input must be a folder if specified." json:"folder"`
	Recursive bool   `name:"recursive" short:"r" help:"Enables recursive lookup for all .usda files inside the subfolders." json:"recursive"`
	TargetCRS string `name:"target-crs" short:"T" default:"nad83-utm17n" help:"Target CRS: a preset name, a WKT file, inline WKT or a document<target> pointer. Use 'none' to skip reprojection." json:"target_crs"`
	Output    string `name:"output" short:"o" default:"text" enum:"text,json,TEXT,JSON" help:"Report format, text or json." json:"output"`
	Color     bool   `name:"color" help:"Styles the text report for a terminal." json:"color"`
}

type FlagsForCommandResolve struct {
	ResolverFlags
	CRS string `arg:"" name:"crs" help:"A document<target> pointer, a preset name, a WKT file or inline WKT." json:"crs"`
}

type FlagsForCommandVersion struct{}

// CLI is the kong grammar of the geolocator command line
type CLI struct {
	FlagsGlobal

	Traverse FlagsForCommandTraverse `cmd:"" help:"Traverses USD documents and geolocates every prim."`
	Resolve  FlagsForCommandResolve  `cmd:"" help:"Resolves a single CRS specification and prints what it names."`
	Version  FlagsForCommandVersion  `cmd:"" help:"Displays the version of geolocator."`
}
