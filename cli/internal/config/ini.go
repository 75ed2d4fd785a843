package config

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// iniCodec lets viper read and write ini files. Keys in the DEFAULT section
// sit at the top level; every other section becomes a nested map.
type iniCodec struct{}

func (iniCodec) Decode(b []byte, v map[string]any) error {
	cfg, err := ini.Load(b)
	if err != nil {
		return err
	}

	for _, section := range cfg.Sections() {
		values := make(map[string]any, len(section.Keys()))
		for _, key := range section.Keys() {
			values[key.Name()] = key.String()
		}

		if section.Name() == ini.DefaultSection {
			for k, val := range values {
				v[k] = val
			}
			continue
		}
		v[section.Name()] = values
	}
	return nil
}

func (iniCodec) Encode(v map[string]any) ([]byte, error) {
	cfg := ini.Empty()

	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		nested, ok := v[name].(map[string]any)
		if !ok {
			if _, err := cfg.Section(ini.DefaultSection).NewKey(name, fmt.Sprint(v[name])); err != nil {
				return nil, err
			}
			continue
		}

		section, err := cfg.NewSection(name)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(nested))
		for k := range nested {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := section.NewKey(k, fmt.Sprint(nested[k])); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newViper() (*viper.Viper, error) {
	codecs := viper.NewCodecRegistry()
	if err := codecs.RegisterCodec("ini", iniCodec{}); err != nil {
		return nil, err
	}
	return viper.NewWithOptions(viper.WithCodecRegistry(codecs)), nil
}
