// Command smfgen assembles a short demonstration tune with the
// fillymidi builder and writes it to a Standard MIDI File.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zurustar/fillymidi/pkg/logger"
	"github.com/zurustar/fillymidi/pkg/midi/smf"
	"github.com/zurustar/fillymidi/pkg/midi/timepack"
)

func main() {
	out := flag.String("o", "demo.mid", "output path for the generated MIDI file")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	tempo := flag.Int("tempo", 500000, "tempo in microseconds per quarter note")
	flag.Parse()

	if err := logger.InitLogger(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "smfgen: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	if err := run(*out, int32(*tempo)); err != nil {
		log.Error("failed to generate MIDI file", "error", err)
		os.Exit(1)
	}
	log.Info("wrote MIDI file", "path", *out)
}

// run builds a one-bar C-major arpeggio over a 4/4 time signature and
// compiles it to path.
func run(path string, tempoUSPQ int32) error {
	b := smf.New()

	if err := b.TimeSig(0, true, 4, 4, 24); err != nil {
		return fmt.Errorf("time signature: %w", err)
	}
	if err := b.Tempo(0, true, tempoUSPQ); err != nil {
		return fmt.Errorf("tempo: %w", err)
	}

	const quarter = 768
	notes := []int32{60, 64, 67, 72}
	for i, pitch := range notes {
		t := timepack.Pack(int32(i)*quarter, timepack.PhaseOnGrid)
		if err := b.Note(t, 1, pitch, 100, quarter); err != nil {
			return fmt.Errorf("note %d: %w", i, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := b.Compile(f); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	return nil
}
