/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"

	"github.com/ecopia-map/usd_geolocator/internal/config"
	"github.com/ecopia-map/usd_geolocator/internal/crs"
	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
	"github.com/ecopia-map/usd_geolocator/pkg"
	"github.com/ecopia-map/usd_geolocator/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/usd_geolocator/pkg/report"
	"github.com/ecopia-map/usd_geolocator/tools"
)

const VERSION = "0.3.0"

const logo = `
                  _                 _
  __ _  ___  ___ | | ___   ___ __ _| |_ ___  _ __
 / _' |/ _ \/ _ \| |/ _ \ / __/ _' | __/ _ \| '__|
| (_| |  __/ (_) | | (_) | (_| (_| | || (_) | |
 \__, |\___|\___/|_|\___/ \___\__,_|\__\___/|_|
  __| | A USD prim geolocator written in golang
 |___/  Copyright YYYY - ecopia-map
`

func main() {
	// the config and env files feed the parser, so they are read ahead of it
	configFile, envFile := config.ScanArgs(os.Args[1:])
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			glog.Exitf("Error loading env file: %v", err)
		}
	}
	fileValues := config.Values{}
	if configFile != "" {
		values, err := config.LoadFile(configFile)
		if err != nil {
			glog.Exitf("Error loading config file: %v", err)
		}
		fileValues = values
	}

	var cli tools.CLI
	ctx := kong.Parse(&cli,
		kong.Name("geolocator"),
		kong.Description("Resolves the CRS of every prim of USD documents and reprojects their world positions."),
		kong.UsageOnError(),
		kong.Resolvers(config.NewResolver(config.FromEnvironment(os.Environ()), fileValues)),
	)

	setupLogging(&cli.FlagsGlobal)
	defer glog.Flush()
	glog.V(1).Infoln("flags", tools.FmtJSONString(cli))

	switch strings.Fields(ctx.Command())[0] {
	case tools.CommandTraverse:
		mainCommandTraverse(&cli)
	case tools.CommandResolve:
		mainCommandResolve(&cli)
	case tools.CommandVersion:
		printVersion()
	}
}

// glog writes to stderr, its verbosity follows --verbosity
func setupLogging(flags *tools.FlagsGlobal) {
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", strconv.Itoa(flags.Verbosity))
	_ = flag.CommandLine.Parse(nil)

	// set logging and timestamp logging
	if flags.Silent {
		tools.DisableLogger()
	}
	if !flags.Timestamp {
		tools.DisableLoggerTimestamp()
	}
}

func mainCommandTraverse(cli *tools.CLI) {
	flags := cli.Traverse

	// Put args inside a GeolocatorOptions struct
	opts := resolverOptions(&flags.ResolverFlags)
	opts.Input = flags.Input
	opts.FolderProcessing = flags.Folder
	opts.Recursive = flags.Recursive
	opts.TargetCRS = flags.TargetCRS
	opts.Output = geoxform.ParseOutputFormat(flags.Output)
	opts.Color = flags.Color

	// Validate GeolocatorOptions
	if msg, res := validateOptionsForCommandTraverse(opts); !res {
		glog.Exit("Error parsing input parameters: " + msg)
	}

	if !cli.Silent && opts.Output == geoxform.OutputText {
		printLogo()
	}

	defer timeTrack(time.Now(), "geolocation")
	sink := report.New(opts.Output, os.Stdout, opts.Color)
	err := pkg.NewPipeline(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts), sink, opts).RunPipeline()

	if err != nil {
		glog.Exit("Error while geolocating: ", err)
	} else {
		tools.LogOutput("Geolocation Completed")
	}
}

// Validates the input options provided to the command line tool checking
// that the input document or folder exists
func validateOptionsForCommandTraverse(opts *geoxform.GeolocatorOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if opts.FolderProcessing && !tools.IsDirectory(opts.Input) {
		return "Input must be a folder when --folder is specified", false
	}
	if !opts.FolderProcessing && tools.IsDirectory(opts.Input) {
		return "Input is a folder, use --folder to process the documents it contains", false
	}
	if opts.Output == "" {
		return "output should be either text or json", false
	}
	return validateResolverOptions(opts)
}

func validateResolverOptions(opts *geoxform.GeolocatorOptions) (string, bool) {
	if opts.BaseFolder != "" && !tools.IsDirectory(opts.BaseFolder) {
		return "Base folder not found", false
	}
	if opts.ReferenceCacheSize <= 0 || opts.TransformerCacheSize <= 0 {
		return "cache sizes must be greater than zero", false
	}
	if strings.TrimSpace(opts.ReferenceAttribute) == "" || strings.TrimSpace(opts.InlineAttribute) == "" {
		return "attribute names cannot be empty", false
	}
	return "", true
}

func mainCommandResolve(cli *tools.CLI) {
	flags := cli.Resolve
	opts := resolverOptions(&flags.ResolverFlags)
	if msg, res := validateResolverOptions(opts); !res {
		glog.Exit("Error parsing input parameters: " + msg)
	}

	pipeline := pkg.NewPipeline(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts), nil, opts)
	desc, err := pipeline.ResolveTarget(flags.CRS, opts.BaseFolder)
	if err != nil {
		glog.Exit("Error while resolving: ", err)
	}
	if desc == nil {
		fmt.Println("No CRS")
		return
	}
	printDescriptor(desc)
}

func printDescriptor(desc *crs.Descriptor) {
	fmt.Println("Name:       " + desc.Name())
	fmt.Println("Kind:       " + desc.Kind().String())
	fmt.Println("Axis order: " + desc.NativeAxisOrder().String())
	fmt.Println("Identity:   " + desc.Identity())
	if desc.Origin() != "" {
		fmt.Println("Origin:     " + desc.Origin())
	}
	if proj4, err := desc.Proj4(crs.EastingNorthing); err == nil {
		fmt.Println("PROJ.4:     " + proj4)
	} else {
		glog.Warningf("No PROJ.4 form for %s: %v", desc.Name(), err)
	}
}

func resolverOptions(flags *tools.ResolverFlags) *geoxform.GeolocatorOptions {
	opts := geoxform.DefaultOptions()
	opts.BaseFolder = flags.BaseFolder
	opts.ReferenceAttribute = flags.ReferenceAttribute
	opts.InlineAttribute = flags.InlineAttribute
	opts.ReferenceCacheSize = flags.ReferenceCacheSize
	opts.TransformerCacheSize = flags.TransformerCacheSize
	opts.CacheFailures = flags.CacheFailures
	return opts
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
