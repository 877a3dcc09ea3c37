package styles

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

// Block element names used in class attributes.
const (
	classRoot      = "waterfall"
	classBar       = classRoot + "__bar"
	classConnector = classRoot + "__connector"
	classLabel     = classRoot + "__label"
	classAxis      = classRoot + "__axis"
)

// BarID returns the element id of the bar at position i.
func BarID(i int) string { return "bar-" + strconv.Itoa(i) }

// BarClass returns the class attribute value for a bar of class c.
func BarClass(c string) string { return classBar + " " + classBar + "--" + c }

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// labelDY returns the dy attribute that lifts a label above its anchor or
// lets it hang below.
func labelDY(above bool) string {
	if above {
		return "-.75em"
	}
	return ".75em"
}
