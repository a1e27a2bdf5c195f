// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// model builds a version 1 stream with two elements.
// If dangling is set, the second element references an
// element that does not exist.
func model(dangling bool) []byte {
	var b bytes.Buffer
	str := func(s string) { b.WriteString(s); b.WriteByte(0) }
	put := func(x any) { binary.Write(&b, binary.LittleEndian, x) }

	str("<!-- dmx encoding binary 1 format model 18 -->\n")
	put(int32(2))
	str("DmeModel")
	str("body")
	b.Write(bytes.Repeat([]byte{1}, 16))
	str("DmeDag")
	str("arm")
	b.Write(bytes.Repeat([]byte{2}, 16))

	put(int32(2))
	str("visible")
	put(uint8(4))
	put(uint8(1))
	str("child")
	put(uint8(1))
	put(int32(1))

	put(int32(1))
	str("parent")
	put(uint8(1))
	if dangling {
		put(int32(5))
	} else {
		put(int32(0))
	}
	return b.Bytes()
}

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return path
}

func runArgs(args ...string) (status int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	status = run(args, &out, &errOut)
	return status, out.String(), errOut.String()
}

func TestText(t *testing.T) {
	path := write(t, "model.dmx", model(false))
	status, out, errOut := runArgs("--color", "never", path)
	if status != exitOK {
		t.Fatalf("run:\nhave %d (%s)\nwant %d", status, errOut, exitOK)
	}
	want := "==> " + path + " (binary 1, model 18, none, 2 elements)\n" +
		"root (element):\n" +
		"\t\tbody (DmeModel, 2 attributes)\n" +
		"\t\t\tvisible (bool):\n\t\t\t\ttrue\n" +
		"\t\t\tchild (element):\n" +
		"\t\t\t\t\tarm (DmeDag, 1 attributes)\n" +
		"\t\t\t\t\t\tparent (element):\n\n"
	if out != want {
		t.Fatalf("run (text):\nhave %q\nwant %q", out, want)
	}

	status, out, _ = runArgs("--color=never", "-e", "arm", path)
	if status != exitOK || !strings.Contains(out, "\narm (DmeDag, 1 attributes)") || strings.Contains(out, "\nbody (") {
		t.Fatalf("run (-e arm):\nhave %d %q\nwant arm at top level", status, out)
	}
}

func TestCompressed(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	zw.Write(model(false))
	zw.Close()
	path := write(t, "model.dmx.zst", buf.Bytes())
	status, out, errOut := runArgs("--color", "never", path)
	if status != exitOK || !strings.Contains(out, "zstd, 2 elements") || !strings.Contains(out, "arm (DmeDag") {
		t.Fatalf("run (zstd):\nhave %d %q %q\nwant decoded graph", status, out, errOut)
	}
}

func TestJSON(t *testing.T) {
	path := write(t, "model.dmx", model(false))
	status, out, errOut := runArgs("-f", "json", path)
	if status != exitOK {
		t.Fatalf("run (json):\nhave %d (%s)\nwant %d", status, errOut, exitOK)
	}
	var doc struct {
		Elements []struct {
			Name string `json:"name"`
		} `json:"elements"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("json.Unmarshal:\nhave %v\nwant nil", err)
	}
	if len(doc.Elements) != 2 || doc.Elements[1].Name != "arm" {
		t.Fatalf("run (json):\nhave %+v\nwant body, arm", doc)
	}
}

func TestFailures(t *testing.T) {
	good := write(t, "good.dmx", model(false))
	bad := write(t, "bad.dmx", []byte("not a dmx file\x00"))
	missing := filepath.Join(t.TempDir(), "missing.dmx")
	status, out, errOut := runArgs("--color", "never", bad, missing, good)
	if status != exitFailure {
		t.Fatalf("run:\nhave %d\nwant %d", status, exitFailure)
	}
	if !strings.Contains(errOut, "error: "+bad+": dmx: unrecognized format") {
		t.Fatalf("run (bad):\nhave %q\nwant format error", errOut)
	}
	if !strings.Contains(errOut, "error: "+missing+": ") {
		t.Fatalf("run (missing):\nhave %q\nwant open error", errOut)
	}
	if !strings.Contains(out, "==> "+good) {
		t.Fatalf("run: remaining files not processed:\n%q", out)
	}
}

func TestStrict(t *testing.T) {
	path := write(t, "dangling.dmx", model(true))
	if status, _, _ := runArgs("--color", "never", path); status != exitOK {
		t.Fatalf("run (lenient):\nhave %d\nwant %d", status, exitOK)
	}
	status, _, errOut := runArgs("--color", "never", "--strict", path)
	if status != exitFailure || !strings.Contains(errOut, "1 unresolved attributes: arm.parent") {
		t.Fatalf("run (strict):\nhave %d %q\nwant %d, arm.parent", status, errOut, exitFailure)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [...][]string{
		{},
		{"-f", "xml", "x.dmx"},
		{"--color", "sometimes", "x.dmx"},
		{"--bogus"},
	} {
		if status, _, _ := runArgs(args...); status != exitUsage {
			t.Fatalf("run(%q):\nhave %d\nwant %d", args, status, exitUsage)
		}
	}
	if status, _, errOut := runArgs("-h"); status != exitOK || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("run(-h):\nhave %d %q\nwant help", status, errOut)
	}
	if status, out, _ := runArgs("--version"); status != exitOK || !strings.HasPrefix(out, "dmxdump ") {
		t.Fatalf("run(--version):\nhave %d %q\nwant version", status, out)
	}
}
