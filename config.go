package zenoh

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys understood by Open. Any other key is carried on the
// session untouched so deployments can pass engine specific settings through.
const (
	KeyMode              = "mode"
	KeyPeer              = "peer"
	KeyListener          = "listener"
	KeyMulticastScouting = "multicast_scouting"
)

// Session modes accepted for the KeyMode property.
const (
	ModePeer   = "peer"
	ModeClient = "client"
)

// Properties is a flat string configuration mapping, the zenoh equivalent of
// a properties file. It configures sessions and types eval selector
// properties and property values.
type Properties map[string]string

// PropertiesFromString parses a "k1=v1;k2=v2" string into Properties. Empty
// items and items without an = are skipped.
func PropertiesFromString(s string) Properties {
	p := Properties{}
	for _, item := range strings.Split(s, ";") {
		if item == "" {
			continue
		}
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			continue
		}
		p[k] = v
	}

	return p
}

// PropertiesFromFile reads a configuration file into Properties. The format
// is whatever viper recognises from the file extension (yaml, json, toml,
// properties...); nested sections flatten into dotted keys.
func PropertiesFromFile(path string) (Properties, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	p := Properties{}
	for _, key := range v.AllKeys() {
		p[key] = v.GetString(key)
	}

	return p, nil
}

// String formats properties as "k1=v1;k2=v2" with keys sorted for stable
// output.
func (p Properties) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, k+"="+p[k])
	}

	return strings.Join(items, ";")
}

// Merge returns a copy of p with the given properties layered on top.
func (p Properties) Merge(over Properties) Properties {
	out := make(Properties, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}

	return out
}

// Mode returns the configured session mode, defaulting to peer.
func (p Properties) Mode() string {
	if m := p[KeyMode]; m != "" {
		return m
	}

	return ModePeer
}

// Peers returns the configured peer locators.
func (p Properties) Peers() []string {
	return splitList(p[KeyPeer])
}

// Listeners returns the configured listener locators.
func (p Properties) Listeners() []string {
	return splitList(p[KeyListener])
}

// validate checks the session relevant keys before a connection is attempted.
func (p Properties) validate() error {
	switch p.Mode() {
	case ModePeer, ModeClient:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, p[KeyMode])
	}

	if p.Mode() == ModeClient && len(p.Peers()) == 0 {
		return fmt.Errorf("%w: client mode requires a peer locator", ErrInvalidConfig)
	}

	if v, ok := p[KeyMulticastScouting]; ok && v != "true" && v != "false" {
		return fmt.Errorf("%w: multicast_scouting %q", ErrInvalidConfig, v)
	}

	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
