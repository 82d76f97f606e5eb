package report

import (
	"io"

	"github.com/ecopia-map/usd_geolocator/internal/geoxform"
)

var (
	_ geoxform.Sink = (*TextPrinter)(nil)
	_ geoxform.Sink = (*JSONPrinter)(nil)
)

// New builds the printer of the requested output format, text when unknown
func New(format geoxform.OutputFormat, w io.Writer, color bool) geoxform.Sink {
	if format == geoxform.OutputJSON {
		return NewJSONPrinter(w)
	}
	return NewTextPrinter(w, color)
}
