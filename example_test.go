// SPDX-License-Identifier: EPL-2.0

package hopstream_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/hopstream"
	"github.com/ik5/hopstream/engine"
	"github.com/ik5/hopstream/internal/audiotest"
	"github.com/ik5/hopstream/sink/wavfile"
)

// Example renders half a second of a tone to an in-memory WAV file.
func Example() {
	cfg := engine.Config{
		SampleRate:    8000,
		HopSize:       16,
		ChunkSize:     50,
		Channels:      2,
		DepthInChunks: 4,
		LowWaterMark:  50,
		GateReleases:  1,
	}

	src := audiotest.NewSineSource(8000, 1, 4000, 440)
	p, err := hopstream.NewPlayer(src, cfg,
		hopstream.WithStopAtEnd(true),
		hopstream.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer p.Close()

	var out audiotest.WriteSeekBuffer
	s, err := wavfile.New(&out, p.Format())
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := p.Run(context.Background(), s); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("hops:", s.Written())
	// Output: hops: 250
}
