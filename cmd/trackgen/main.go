package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/track"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalln(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("trackgen", flag.ContinueOnError)
	seed := fs.Int64("seed", 42, "track seed (32-bit)")
	summary := fs.Bool("summary", false, "print segment types and finish line instead of JSON")
	indent := fs.Bool("indent", false, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *seed < -1<<31 || *seed > 1<<31-1 {
		return fmt.Errorf("seed %d does not fit in 32 bits", *seed)
	}

	t := track.Generate(int32(*seed))
	if *summary {
		fmt.Fprintf(out, "seed %d\n", t.Seed)
		for i, s := range t.Segments {
			fmt.Fprintf(out, "%3d %s\n", i, s.Type)
		}
		fmt.Fprintf(out, "finish y=%.3f\n", t.FinishLineY())
		return nil
	}

	enc := json.NewEncoder(out)
	if *indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(t)
}
