// See doc.go for documentation
package main

import (
	"io"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/bgzfio/bgzf/bgzf"
)

const usage = `usage: bgzf < input > output.bgzf

Reads raw bytes from standard input and writes BGZF-framed output to
standard output. Any argument prints this message and exits.
`

const chunkSize = 1 << 16

func main() {
	if len(os.Args) > 1 {
		os.Stdout.WriteString(usage)
		return
	}

	shutdown := grail.Init()
	defer shutdown()

	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("bgzf: %v", err)
	}
}

func run(r io.Reader, w io.Writer) error {
	log.Print("Producing BGZF output from stdin...")

	bw, err := bgzf.NewWriter(w, -1)
	if err != nil {
		return err
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := bw.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if err := bw.Close(); err != nil {
		return err
	}

	log.Print("BGZF data produced")
	return nil
}
