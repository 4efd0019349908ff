package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff"

	"github.com/yorkxin/id3rm"
)

const (
	programName = "id3rm"
	programVar  = "ID3RM"
)

// exitInterrupted is the conventional 128+SIGINT.
const exitInterrupted = 130

const usage = `Remove ID3 tags from an audio file.

Usage:
  id3rm [OPTION] INPUT

  When -o is not set, INPUT is stripped in place. It is renamed to INPUT.tmp
  while the stripped copy is written, and INPUT.tmp is kept if anything fails.

  OPTION:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(0)
	log.SetPrefix(programName + ": ")

	set := flag.NewFlagSet(programName, flag.ExitOnError)
	set.SetOutput(stderr)
	set.Usage = func() {
		fmt.Fprint(set.Output(), usage)
		set.PrintDefaults()
	}
	confOutput := set.String("o", "", "output file (optional)")
	confCheck := set.Bool("check", false, "print the detected tags and change nothing (optional)")
	confV1FullTrim := set.Bool("v1-full-trim", false, "trim all 128 bytes of an ID3v1 tag instead of 127 (optional)")
	_ = set.String("config-path", "", "path to config (optional)")

	if err := ff.Parse(set, args,
		ff.WithConfigFileFlag("config-path"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithEnvVarPrefix(programVar),
	); err != nil {
		log.Printf("error parsing args: %v\n", err)
		return 2
	}

	if set.NArg() != 1 {
		set.Usage()
		return 2
	}
	input := set.Arg(0)

	opts := id3rm.Options{FullV1Trim: *confV1FullTrim}

	if *confCheck {
		if err := check(stdout, input, opts); err != nil {
			log.Printf("checking %q: %v", input, err)
			return 1
		}
		return 0
	}

	report, err := id3rm.StripFile(ctx, input, *confOutput, opts)
	if errors.Is(err, id3rm.ErrInterrupted) {
		fmt.Fprintln(stderr, "interrupted, exiting...")
		return exitInterrupted
	}
	if err != nil {
		log.Printf("stripping %q: %v", input, err)
		return 1
	}

	log.Printf("%s: tags %s, kept bytes %s of %d, wrote %d", input, report.Presence, report.Range, report.Size, report.Written)
	return 0
}

func check(w io.Writer, input string, opts id3rm.Options) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}

	report, err := id3rm.Inspect(f, stat.Size(), opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "[%s] File Size      = %d\n", programName, report.Size)
	fmt.Fprintf(w, "[%s] Tags           = %s\n", programName, report.Presence)
	if report.Header != nil {
		flags := report.Header.FlagSet()
		fmt.Fprintf(w, "[%s] ID3v2 Header   = %s\n", programName, report.Header)
		fmt.Fprintf(w, "[%s] ID3v2 Flags    = %+v\n", programName, flags)
	}
	if report.V1 != nil {
		fmt.Fprintf(w, "[%s] ID3v1 Title    = %q\n", programName, report.V1.Title)
		fmt.Fprintf(w, "[%s] ID3v1 Artist   = %q\n", programName, report.V1.Artist)
		fmt.Fprintf(w, "[%s] ID3v1 Album    = %q\n", programName, report.V1.Album)
		fmt.Fprintf(w, "[%s] ID3v1 Year     = %q\n", programName, report.V1.Year)
		fmt.Fprintf(w, "[%s] ID3v1 Track    = %d\n", programName, report.V1.Track)
	}
	fmt.Fprintf(w, "[%s] Payload Range  = %s\n", programName, report.Range)
	fmt.Fprintf(w, "[%s] Payload Size   = %d\n", programName, report.Range.Len())
	return nil
}
