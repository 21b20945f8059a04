// fpc is a command-line frontend for the codec: compress a raw sample dump
// to an FPC stream, decompress an FPC stream back to raw samples, or print
// an FPC stream's header without decoding its payload.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/fpcodec/fpc"
	"github.com/mewkiz/pkg/pathutil"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: fpc compress|decompress|header [OPTION]... FILE")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "compress FILE")
	fmt.Fprintln(os.Stderr, "  Read a raw sample dump (see format below) and write FILE.fpc.")
	fmt.Fprintln(os.Stderr, "decompress FILE")
	fmt.Fprintln(os.Stderr, "  Read an FPC stream and write FILE.raw, a raw sample dump.")
	fmt.Fprintln(os.Stderr, "header FILE")
	fmt.Fprintln(os.Stderr, "  Print an FPC stream's header without decoding its payload.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Raw sample dump format: a little-endian uint32 type (0=float32,")
	fmt.Fprintln(os.Stderr, "1=float64), four little-endian uint32 dimensions (nx,ny,nz,nf), then")
	fmt.Fprintln(os.Stderr, "nx*ny*nz*nf samples of the declared width.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	var force bool
	flag.BoolVar(&force, "f", false, "force overwrite")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}
	command, path := flag.Arg(0), flag.Arg(1)

	var err error
	switch command {
	case "compress":
		err = compress(path, force)
	case "decompress":
		err = decompress(path, force)
	case "header":
		err = printHeader(path)
	default:
		log.Fatalf("unknown command: %s", command)
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func compress(path string, force bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(raw) < 20 {
		return fmt.Errorf("%s: too short to be a raw sample dump", path)
	}
	typ := binary.LittleEndian.Uint32(raw[0:4])
	nx := int(binary.LittleEndian.Uint32(raw[4:8]))
	ny := int(binary.LittleEndian.Uint32(raw[8:12]))
	nz := int(binary.LittleEndian.Uint32(raw[12:16]))
	nf := int(binary.LittleEndian.Uint32(raw[16:20]))
	payload := raw[20:]

	var out []byte
	switch typ {
	case 0:
		n := nx * ny * nz * nf
		samples := make([]float32, n)
		for i := 0; i < n; i++ {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i : 4*i+4]))
		}
		out, err = fpc.CompressF32(samples, nx, ny, nz, nf)
	case 1:
		n := nx * ny * nz * nf
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i : 8*i+8]))
		}
		out, err = fpc.CompressF64(samples, nx, ny, nz, nf)
	default:
		return fmt.Errorf("%s: unknown sample type %d", path, typ)
	}
	if err != nil {
		return err
	}

	outPath := pathutil.TrimExt(path) + ".fpc"
	return writeFile(outPath, out, force)
}

func decompress(path string, force bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := fpc.ReadHeader(data)
	if err != nil {
		return err
	}

	var payload []byte
	switch h.Type {
	case fpc.TypeFloat32:
		samples, _, err := fpc.DecompressF32(data)
		if err != nil {
			return err
		}
		payload = make([]byte, 4*len(samples))
		for i, s := range samples {
			binary.LittleEndian.PutUint32(payload[4*i:4*i+4], math.Float32bits(s))
		}
	case fpc.TypeFloat64:
		samples, _, err := fpc.DecompressF64(data)
		if err != nil {
			return err
		}
		payload = make([]byte, 8*len(samples))
		for i, s := range samples {
			binary.LittleEndian.PutUint64(payload[8*i:8*i+8], math.Float64bits(s))
		}
	}

	header := make([]byte, 20)
	binary.LittleEndian.PutUint32(header[0:4], uint32(h.Type))
	binary.LittleEndian.PutUint32(header[4:8], h.NX)
	binary.LittleEndian.PutUint32(header[8:12], h.NY)
	binary.LittleEndian.PutUint32(header[12:16], h.NZ)
	binary.LittleEndian.PutUint32(header[16:20], h.NF)

	outPath := pathutil.TrimExt(path) + ".raw"
	return writeFile(outPath, append(header, payload...), force)
}

func printHeader(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	h, err := fpc.ReadHeader(data)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	fmt.Fprintf(w, "version:  %d\n", h.Version)
	fmt.Fprintf(w, "type:     %s\n", h.Type)
	fmt.Fprintf(w, "nx:       %d\n", h.NX)
	fmt.Fprintf(w, "ny:       %d\n", h.NY)
	fmt.Fprintf(w, "nz:       %d\n", h.NZ)
	fmt.Fprintf(w, "nf:       %d\n", h.NF)
	fmt.Fprintf(w, "samples:  %d\n", h.SampleCount())
	return nil
}

func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("the file %q exists already; use -f to force overwrite", path)
		}
	}
	return os.WriteFile(path, data, 0644)
}
