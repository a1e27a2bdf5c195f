// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package dmx

import (
	"strconv"
	"strings"
)

// Header is the text header that starts every DMX file.
//
//	<!-- dmx encoding binary 5 format model 22 -->
type Header struct {
	Encoding        string
	EncodingVersion int
	Format          string
	FormatVersion   int
}

// Header limits.
const (
	headerPrefix = "<!-- "
	headerSuffix = "-->"
	maxHeaderLen = 1024
)

// Supported binary encoding versions.
const (
	minVersion = 1
	maxVersion = 5
)

// String returns the textual form of h, as it appears
// in a file (without the trailing newline and NUL).
func (h Header) String() string {
	return headerPrefix + "dmx encoding " + h.Encoding + " " + strconv.Itoa(h.EncodingVersion) +
		" format " + h.Format + " " + strconv.Itoa(h.FormatVersion) + " -->"
}

// parseHeader parses the header text without its
// terminator. On failure, it returns a non-empty reason.
func parseHeader(s string) (h Header, reason string) {
	f := strings.Fields(s)
	var err error
	switch {
	case len(f) == 9 && f[0] == "<!--" && f[1] == "dmx" && f[2] == "encoding" && f[5] == "format" && f[8] == "-->":
		h.Encoding = f[3]
		h.Format = f[6]
		if h.EncodingVersion, err = strconv.Atoi(f[4]); err != nil {
			reason = "invalid encoding version " + strconv.Quote(f[4])
		} else if h.FormatVersion, err = strconv.Atoi(f[7]); err != nil {
			reason = "invalid format version " + strconv.Quote(f[7])
		}
	case len(f) == 4 && f[0] == "<!--" && f[1] == "DMXVersion" && f[3] == "-->":
		// Legacy header: <!-- DMXVersion binary_v2 -->.
		enc, ver, ok := strings.Cut(f[2], "_v")
		if !ok {
			reason = "invalid legacy version " + strconv.Quote(f[2])
			break
		}
		h.Encoding = enc
		h.Format = "dmx"
		h.FormatVersion = 1
		if h.EncodingVersion, err = strconv.Atoi(ver); err != nil {
			reason = "invalid legacy version " + strconv.Quote(f[2])
		}
	default:
		reason = "unrecognized header " + strconv.Quote(s)
	}
	if reason != "" {
		return
	}
	switch {
	case h.Encoding != "binary":
		reason = "unsupported encoding " + strconv.Quote(h.Encoding)
	case h.EncodingVersion < minVersion || h.EncodingVersion > maxVersion:
		reason = "unsupported binary version " + strconv.Itoa(h.EncodingVersion)
	}
	return
}
