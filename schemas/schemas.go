// Package schemas embeds the JSON Schema documents that describe accepted model output.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Schema names.
const (
	Questions  = "questions"
	Evaluation = "evaluation"
)

// Load returns the raw schema document registered under name.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile(name + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	return data, nil
}

// Names lists the embedded schemas.
func Names() []string {
	return []string{Questions, Evaluation}
}
