package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "run":
		return runTemplate, nil
	case "gen":
		return genTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const runTemplate = `# ttmctl run configuration
input = "testdata/3d_8.tns"
# common axis of tensor and matrix, counting from 0
mode = 0
# number of matrix columns
rank = 16
# coo | scoo
algo = "scoo"
# 0 lets the runtime pick, 1 forces the serial kernel
workers = 0
# CSV event output, "-" for the log, empty to disable
trace = ""
seed = 42
`

const genTemplate = `# tnsgen configuration
output = "random.tns"
shape = [64, 64, 64]
density = 0.01
mean = 0.0
std_dev = 1.0
seed = 42
# write 1-based coordinates
one_based = false
`
