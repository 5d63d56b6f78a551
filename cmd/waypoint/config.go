package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/waypoint/blobstore"
	"github.com/hupe1980/waypoint/blobstore/minio"
	"github.com/hupe1980/waypoint/blobstore/s3"
	"github.com/hupe1980/waypoint/graph/grid"
	"github.com/hupe1980/waypoint/resource"
	"github.com/hupe1980/waypoint/search"
)

// Config is the YAML configuration file.
type Config struct {
	LogLevel string          `yaml:"log_level"`
	Store    StoreConfig     `yaml:"store"`
	Grid     GridConfig      `yaml:"grid"`
	Search   SearchConfig    `yaml:"search"`
	Limits   resource.Config `yaml:"limits"`
}

// StoreConfig selects where snapshots are kept.
type StoreConfig struct {
	// Kind is one of local, s3 or minio.
	Kind  string       `yaml:"kind"`
	Local LocalConfig  `yaml:"local"`
	S3    S3Config     `yaml:"s3"`
	MinIO minio.Config `yaml:"minio"`
}

// LocalConfig configures a directory store.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// S3Config configures an S3 store.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// GridConfig holds the options used when parsing ASCII maps.
type GridConfig struct {
	Topology   string  `yaml:"topology"`
	NodeSize   float64 `yaml:"node_size"`
	CutCorners bool    `yaml:"cut_corners"`
}

// SearchConfig holds default search options.
type SearchConfig struct {
	Heuristic         string  `yaml:"heuristic"`
	HeuristicScale    float64 `yaml:"heuristic_scale"`
	Partial           bool    `yaml:"partial"`
	TimeCheckInterval int     `yaml:"time_check_interval"`
	MaxSearchedNodes  int     `yaml:"max_searched_nodes"`
	// PartitionCheck defaults to true when omitted.
	PartitionCheck *bool `yaml:"partition_check"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Kind:  "local",
			Local: LocalConfig{Root: "."},
		},
		Grid: GridConfig{Topology: "eight"},
		Search: SearchConfig{
			Heuristic:         "euclidean",
			HeuristicScale:    1,
			TimeCheckInterval: search.DefaultTimeCheckInterval,
			MaxSearchedNodes:  search.DefaultMaxSearchedNodes,
		},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// when path is empty.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// options converts the search section into search options.
func (c SearchConfig) options() ([]search.Option, error) {
	h, err := search.ParseHeuristic(c.Heuristic)
	if err != nil {
		return nil, err
	}

	opts := []search.Option{
		search.WithHeuristic(h),
		search.WithHeuristicScale(c.HeuristicScale),
		search.WithPartial(c.Partial),
		search.WithTimeCheckInterval(c.TimeCheckInterval),
		search.WithMaxSearchedNodes(c.MaxSearchedNodes),
	}
	if c.PartitionCheck != nil {
		opts = append(opts, search.WithPartitionCheck(*c.PartitionCheck))
	}
	return opts, nil
}

// options converts the grid section into grid options.
func (c GridConfig) options() (grid.Options, error) {
	if c.Topology == "" {
		return grid.Options{NodeSize: c.NodeSize, CutCorners: c.CutCorners}, nil
	}
	topo, err := grid.ParseTopology(c.Topology)
	if err != nil {
		return grid.Options{}, err
	}
	return grid.Options{
		Topology:   topo,
		NodeSize:   c.NodeSize,
		CutCorners: c.CutCorners,
	}, nil
}

var errUnknownStore = errors.New("unknown store kind")

// openStore creates the configured blob store.
func openStore(ctx context.Context, c StoreConfig) (blobstore.Store, error) {
	switch c.Kind {
	case "", "local":
		root := c.Local.Root
		if root == "" {
			root = "."
		}
		return blobstore.NewLocalStore(root), nil
	case "s3":
		var opts []s3.Option
		if c.S3.Prefix != "" {
			opts = append(opts, s3.WithPrefix(c.S3.Prefix))
		}
		if c.S3.Region != "" {
			opts = append(opts, s3.WithRegion(c.S3.Region))
		}
		if c.S3.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.S3.Endpoint))
		}
		if c.S3.PathStyle {
			opts = append(opts, s3.WithPathStyle())
		}
		return s3.New(ctx, c.S3.Bucket, opts...)
	case "minio":
		return minio.Connect(c.MinIO)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStore, c.Kind)
	}
}
