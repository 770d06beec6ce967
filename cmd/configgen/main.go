package main

import (
	"flag"
	"log"

	"github.com/danmuck/sparten/internal/config"
)

func main() {
	kind := flag.String("kind", "run", "config kind: run|gen")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			switch *kind {
			case "run":
				path = "ttmctl.toml"
			case "gen":
				path = "tnsgen.toml"
			default:
				log.Fatalf("unknown kind: %s", *kind)
			}
		}

		switch *kind {
		case "run":
			if _, err := config.LoadRunConfig(path); err != nil {
				log.Fatal(err)
			}
		case "gen":
			if _, err := config.LoadGenConfig(path); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "run":
			target = "ttmctl.toml"
		case "gen":
			target = "tnsgen.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}
