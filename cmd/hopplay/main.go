// SPDX-License-Identifier: EPL-2.0

// Command hopplay plays an audio file through the streaming engine, either to
// the default output device or, with -out, into a WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ik5/hopstream"
	"github.com/ik5/hopstream/config"
	"github.com/ik5/hopstream/protocol"
	"github.com/ik5/hopstream/sink"
	"github.com/ik5/hopstream/sink/speaker"
	"github.com/ik5/hopstream/sink/wavfile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hopplay:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  = flag.String("config", "", "YAML configuration file")
		outPath  = flag.String("out", "", "render into this WAV file instead of the speaker")
		trace    = flag.String("trace", "", "append engine events to this msgpack file")
		seek     = flag.Float64("seek", 0, "start position in seconds")
		logLevel = flag.String("log", "info", "log level: debug, info, warn, error")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hopplay [flags] <input.{%s}>\n",
			strings.Join(hopstream.DefaultRegistry().Formats(), "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return errors.New("expected one input file")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}

	src, err := hopstream.Open(hopstream.DefaultRegistry(), flag.Arg(0))
	if err != nil {
		return err
	}

	opts := []hopstream.Option{
		hopstream.WithLogger(logger),
		hopstream.WithAutoplay(cfg.Player.Autoplay),
		// A file render has nothing to wait for past the end.
		hopstream.WithStopAtEnd(cfg.Player.StopAtEnd || *outPath != ""),
		hopstream.WithRequestTimeout(cfg.Player.RequestTimeout),
		hopstream.WithInboxSize(cfg.Player.InboxSize),
		hopstream.WithEventBuffer(cfg.Player.EventBuffer),
		hopstream.WithOnEnd(func() { logger.Info("hopplay: end of stream") }),
	}

	var eventLog *protocol.EventLog
	if *trace != "" {
		f, err := os.Create(*trace)
		if err != nil {
			return fmt.Errorf("creating trace: %w", err)
		}
		defer f.Close()

		eventLog = protocol.NewEventLog(f)
		opts = append(opts, hopstream.WithOnEvent(eventLog.Emit))
	}

	p, err := hopstream.NewPlayer(src, cfg.Engine, opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	if d, ok := p.Duration(); ok {
		logger.Info("hopplay: loaded", "file", flag.Arg(0), "seconds", d,
			"source_rate", src.SampleRate(), "engine_rate", cfg.Engine.SampleRate)
	}

	if *seek > 0 {
		if err := p.Seek(*seek); err != nil {
			return err
		}
	}

	out, closeOut, err := openSink(*outPath, p.Format(), logger)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = p.Run(ctx, out)

	if eventLog != nil {
		err = errors.Join(err, eventLog.Err())
		logger.Debug("hopplay: trace written", "events", eventLog.Len())
	}
	return err
}

func openSink(path string, format sink.Format, logger *slog.Logger) (sink.Sink, func(), error) {
	if path == "" {
		s, err := speaker.New(format, speaker.WithLogger(logger))
		return s, func() {}, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}

	s, err := wavfile.New(f, format, wavfile.WithLogger(logger))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return s, func() { f.Close() }, nil
}
