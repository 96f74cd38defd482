// Package cmdutil holds helpers shared by the jvd subcommands.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/pkg/locator"
	"github.com/keibacicd/jvdata-engine/pkg/service"
)

// Print writes v as JSON or YAML. The YAML form is derived from the JSON
// encoding so both outputs share field names and decimal formatting.
func Print(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "yml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return err
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// blockStyle drops the flow style inherited from the JSON source.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// NewOddsService wires the odds service from the resolved configuration.
func NewOddsService() *service.OddsService {
	return service.NewOddsService(
		locator.New(config.RTDataPath()),
		service.WithCacheTTL(config.CacheTTL),
	)
}
