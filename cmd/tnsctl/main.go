package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/observability"
	"github.com/danmuck/sparten/internal/tnsio"
)

func main() {
	observability.InitLogger("tnsctl")

	input := flag.String("input", "", "input tensor file (.tns)")
	output := flag.String("output", "", "optional output tensor file")
	offset := flag.Int64("offset", 0, "subtracted from every input coordinate (1 for one-based files)")
	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("missing -input")
	}
	f, err := os.Open(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open input")
	}
	tsr, err := tnsio.Read[uint32, float32](f, tnsio.ReadOptions{IndexOffset: *offset})
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read tensor")
	}
	log.Info().
		Str("shape", axis.Format(tsr.Shape())).
		Int("elements", tsr.NumNonZeros()).
		Msg("tensor loaded")

	if *output == "" {
		return
	}
	out, err := os.Create(*output)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create output")
	}
	if err := tnsio.Write(out, tsr, tnsio.WriteOptions{}); err != nil {
		log.Fatal().Err(err).Msg("failed to write tensor")
	}
	if err := out.Close(); err != nil {
		log.Fatal().Err(err).Msg("failed to close output")
	}
	log.Info().Str("path", *output).Msg("tensor written")
}
