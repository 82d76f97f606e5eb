package tools

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
)

var mu sync.Mutex
var isEnabled = true
var printTimestamp = true
var output io.Writer = os.Stderr

func EnableLogger() {
	mu.Lock()
	defer mu.Unlock()
	isEnabled = true
}

func DisableLogger() {
	mu.Lock()
	defer mu.Unlock()
	isEnabled = false
}

func EnableLoggerTimestamp() {
	mu.Lock()
	defer mu.Unlock()
	printTimestamp = true
}

func DisableLoggerTimestamp() {
	mu.Lock()
	defer mu.Unlock()
	printTimestamp = false
}

// SetLoggerOutput redirects the progress messages, stderr by default
func SetLoggerOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// LogOutput prints a progress message for the user. Messages always reach the glog
// info log, the console copy can be silenced with DisableLogger.
func LogOutput(val ...interface{}) {
	glog.InfoDepth(1, val...)

	mu.Lock()
	defer mu.Unlock()
	if !isEnabled {
		return
	}
	if printTimestamp {
		fmt.Fprint(output, "["+time.Now().Format("2006-01-02 15.04:05.000")+"] ")
	}
	fmt.Fprintln(output, val...)
}
