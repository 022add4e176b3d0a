package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/downhill/audio"
	"github.com/milk9111/downhill/prefabs"
	"github.com/milk9111/downhill/save"
	"github.com/milk9111/downhill/session"
)

func main() {
	seed := flag.Uint64("seed", 0, "terrain seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable audio cues")
	logPath := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal belongs to tcell, so logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "slopeview: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	if err := run(*seed, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "slopeview: %v\n", err)
		os.Exit(1)
	}
}

func run(seed uint64, mute bool) error {
	cfg, err := prefabs.LoadConfig()
	if err != nil {
		return err
	}
	store, err := save.Open("downhill")
	if err != nil {
		log.Printf("Save: best run will not persist: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	s, err := session.New(cfg, session.Options{Seed: seed, Records: store})
	if err != nil {
		return err
	}

	cues := audio.NewCues()
	if !mute {
		// non-fatal, the viewer runs silent
		if err := cues.Init(); err != nil {
			log.Printf("Audio: %v", err)
		}
	}
	defer cues.Close()

	v := NewViewer(screen, s, cues)
	defer v.Close()
	v.Run()
	return nil
}
