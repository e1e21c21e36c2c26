package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/webresearch/internal/failure"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(f string) error {
	switch f {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown --format %q (want text, json or yaml)", f)
}

// writeOutput prints text for the text format and v encoded otherwise.
func writeOutput(w io.Writer, format, text string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(v), "output: encode json")
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "output: encode yaml")
		}
		return eris.Wrap(enc.Close(), "output: close yaml")
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// userError logs err in full and returns only its user-facing message.
func userError(op string, err error) error {
	zap.L().Error(op, zap.Error(err))
	return eris.New(failure.UserMessage(err))
}
